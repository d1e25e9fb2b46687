package engine

import (
	"github.com/tracereplay/replay-cli/cksum"
	"github.com/tracereplay/replay-cli/printer"
)

// untruncate normalizes a snapshotted packet per the configured policy.
// No-op when the capture already holds the full frame.
func (e *Engine) untruncate(p *Packet) {
	if p.CapLen == p.OrigLen || !e.view.ok {
		return
	}

	switch e.cfg.Trunc {
	case TruncPad:
		// Zero-fill out to the original wire length and adopt it.
		e.view.extend(p.OrigLen - ethHeaderLen)
		p.CapLen = p.OrigLen
	case TruncTrim:
		// Keep the captured bytes and make the IP header agree.
		e.view.setTotalLen(uint16(p.CapLen - ethHeaderLen))
	default:
		return
	}

	e.fixChecksums()
}

// randomizeIPs scrambles the source and destination addresses with the
// configured seed. The transform (A XOR S) - (A AND S) is deterministic
// and keeps distinct inputs distinct; with seed 0 it is the identity.
// Applying it twice with the same seed does not restore the original.
func (e *Engine) randomizeIPs() {
	s := e.cfg.Seed
	src := e.view.src()
	dst := e.view.dst()
	e.view.setSrc((src ^ s) - (src & s))
	e.view.setDst((dst ^ s) - (dst & s))

	e.fixChecksums()
}

// fixChecksums recomputes the transport checksum (TCP/UDP only) and
// then the IP header checksum over the current view. A checksum helper
// failure is warned and the packet is sent anyway: a multi-hour replay
// must not die on one odd header.
func (e *Engine) fixChecksums() {
	hl := e.view.headerLen()
	if hl < ipv4MinHeader || hl > e.view.len() {
		printer.Warningf("IP header length %d out of range, leaving checksums alone\n", hl)
		return
	}

	if proto := e.view.protocol(); proto == cksum.ProtoTCP || proto == cksum.ProtoUDP {
		seg := e.view.buf[hl:]
		if err := cksum.Transport(proto, e.view.srcBytes(), e.view.dstBytes(), seg); err != nil {
			printer.Warningf("Transport checksum failed: %v\n", err)
		}
	}

	if err := cksum.IP(e.view.buf[:hl]); err != nil {
		printer.Warningf("IP checksum failed: %v\n", err)
	}
}

// rewriteMAC overwrites the Ethernet destination with the override for
// the chosen interface, when one is configured.
func rewriteMAC(frame []byte, mac []byte) {
	if !macIsSet(mac) || len(frame) < 6 {
		return
	}
	copy(frame[0:6], mac)
}

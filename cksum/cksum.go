// Package cksum computes RFC 1071 Internet checksums for IPv4 headers
// and for TCP/UDP segments over the IPv4 pseudo-header.
package cksum

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// ProtoTCP and ProtoUDP are the IPv4 protocol numbers the transport
	// checksum supports.
	ProtoTCP = 6
	ProtoUDP = 17

	minIPHeaderLen  = 20
	tcpChecksumOff  = 16
	udpChecksumOff  = 6
	minTCPHeaderLen = 20
	minUDPHeaderLen = 8
)

// sum adds b to acc as a sequence of big-endian 16-bit words. An odd
// trailing byte is padded with zero on the right.
func sum(b []byte, acc uint32) uint32 {
	for len(b) >= 2 {
		acc += uint32(binary.BigEndian.Uint16(b[:2]))
		b = b[2:]
	}
	if len(b) == 1 {
		acc += uint32(b[0]) << 8
	}
	return acc
}

// fold reduces a 32-bit accumulator to the 16-bit one's-complement sum
// and returns its complement.
func fold(acc uint32) uint16 {
	for acc > 0xffff {
		acc = (acc & 0xffff) + (acc >> 16)
	}
	return ^uint16(acc)
}

// IP recomputes the IPv4 header checksum in place. hdr must be the
// complete header, IHL*4 bytes long.
func IP(hdr []byte) error {
	if len(hdr) < minIPHeaderLen {
		return errors.Errorf("IP header too short: %d bytes", len(hdr))
	}
	if want := int(hdr[0]&0x0f) * 4; want != len(hdr) {
		return errors.Errorf("IP header length mismatch: IHL says %d, have %d", want, len(hdr))
	}
	hdr[10], hdr[11] = 0, 0
	binary.BigEndian.PutUint16(hdr[10:12], fold(sum(hdr, 0)))
	return nil
}

// Transport recomputes a TCP or UDP checksum in place. seg is the
// transport header plus payload; its length is also the length used in
// the pseudo-header. src and dst are the 4-byte IPv4 addresses.
//
// A UDP checksum that computes to zero is written as zero: the replayed
// frame must match the captured byte layout, and the capture's notion
// of "no checksum" is preserved rather than re-encoded as 0xffff.
func Transport(proto byte, src, dst []byte, seg []byte) error {
	if len(src) != 4 || len(dst) != 4 {
		return errors.Errorf("pseudo-header addresses must be 4 bytes, got %d/%d", len(src), len(dst))
	}

	var off, min int
	switch proto {
	case ProtoTCP:
		off, min = tcpChecksumOff, minTCPHeaderLen
	case ProtoUDP:
		off, min = udpChecksumOff, minUDPHeaderLen
	default:
		return errors.Errorf("unsupported transport protocol %d", proto)
	}
	if len(seg) < min {
		return errors.Errorf("transport segment too short for protocol %d: %d bytes", proto, len(seg))
	}

	seg[off], seg[off+1] = 0, 0

	acc := sum(src, 0)
	acc = sum(dst, acc)
	acc += uint32(proto)
	acc += uint32(len(seg))
	acc = sum(seg, acc)

	binary.BigEndian.PutUint16(seg[off:off+2], fold(acc))
	return nil
}

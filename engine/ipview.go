package engine

import (
	"encoding/binary"
	"net"
)

const (
	ethHeaderLen    = 14
	etherTypeIPv4   = 0x0800
	ipv4MinHeader   = 20
	ipDstHighOffset = 16
)

// ipView is an aligned staging copy of the IPv4-and-above portion of a
// frame. All layer-3+ mutation happens on the view, which is then
// stored back into the frame before sending. The view owns its buffer
// and reuses it across packets.
type ipView struct {
	buf []byte
	ok  bool
}

// load copies frame bytes 14..capLen into the view. It reports whether
// an IP view is present: the frame must carry an IPv4 EtherType, at
// least a full minimum IP header, and a nonzero version/IHL byte. A
// frame that claims IPv4 but starts with a zero byte is treated as
// non-IP rather than mutated blind.
func (v *ipView) load(frame []byte, capLen int) bool {
	v.ok = false
	if capLen < ethHeaderLen+ipv4MinHeader {
		return false
	}
	if binary.BigEndian.Uint16(frame[12:14]) != etherTypeIPv4 {
		return false
	}
	if frame[ethHeaderLen] == 0 {
		return false
	}

	n := capLen - ethHeaderLen
	if cap(v.buf) < n {
		v.buf = make([]byte, n)
	} else {
		v.buf = v.buf[:n]
	}
	copy(v.buf, frame[ethHeaderLen:capLen])
	v.ok = true
	return true
}

// store copies the view back into the frame at the IP offset.
func (v *ipView) store(frame []byte) {
	copy(frame[ethHeaderLen:ethHeaderLen+len(v.buf)], v.buf)
}

// extend grows the view to n bytes, zero-filling the new tail.
func (v *ipView) extend(n int) {
	if n <= len(v.buf) {
		return
	}
	if cap(v.buf) < n {
		grown := make([]byte, n)
		copy(grown, v.buf)
		v.buf = grown
		return
	}
	old := len(v.buf)
	v.buf = v.buf[:n]
	for i := old; i < n; i++ {
		v.buf[i] = 0
	}
}

func (v *ipView) len() int {
	return len(v.buf)
}

func (v *ipView) headerLen() int {
	return int(v.buf[0]&0x0f) * 4
}

func (v *ipView) protocol() byte {
	return v.buf[9]
}

func (v *ipView) totalLen() uint16 {
	return binary.BigEndian.Uint16(v.buf[2:4])
}

func (v *ipView) setTotalLen(n uint16) {
	binary.BigEndian.PutUint16(v.buf[2:4], n)
}

func (v *ipView) src() uint32 {
	return binary.BigEndian.Uint32(v.buf[12:16])
}

func (v *ipView) setSrc(a uint32) {
	binary.BigEndian.PutUint32(v.buf[12:16], a)
}

func (v *ipView) dst() uint32 {
	return binary.BigEndian.Uint32(v.buf[16:20])
}

func (v *ipView) setDst(a uint32) {
	binary.BigEndian.PutUint32(v.buf[16:20], a)
}

func (v *ipView) srcIP() net.IP {
	return net.IPv4(v.buf[12], v.buf[13], v.buf[14], v.buf[15])
}

func (v *ipView) dstHighByte() byte {
	return v.buf[ipDstHighOffset]
}

// srcBytes and dstBytes return the raw 4-byte addresses for
// pseudo-header checksum construction.
func (v *ipView) srcBytes() []byte {
	return v.buf[12:16]
}

func (v *ipView) dstBytes() []byte {
	return v.buf[16:20]
}

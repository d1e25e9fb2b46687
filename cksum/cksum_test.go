package cksum

import (
	"encoding/binary"
	"testing"
)

// Known-good IPv4 header, checksum field 0xb861 (the classic RFC 1071
// worked example).
func knownHeader() []byte {
	return []byte{
		0x45, 0x00, 0x00, 0x73, 0x00, 0x00, 0x40, 0x00,
		0x40, 0x11, 0xb8, 0x61, 0xc0, 0xa8, 0x00, 0x01,
		0xc0, 0xa8, 0x00, 0xc7,
	}
}

func TestIPKnownVector(t *testing.T) {
	hdr := knownHeader()
	// Corrupt the stored checksum; IP must restore it.
	hdr[10], hdr[11] = 0xde, 0xad
	if err := IP(hdr); err != nil {
		t.Fatalf("IP() returned error: %v", err)
	}
	if got := binary.BigEndian.Uint16(hdr[10:12]); got != 0xb861 {
		t.Errorf("IP checksum = %#04x, want 0xb861", got)
	}
}

func TestIPSelfVerifies(t *testing.T) {
	hdr := knownHeader()
	if err := IP(hdr); err != nil {
		t.Fatalf("IP() returned error: %v", err)
	}
	// Summing a header that includes a correct checksum folds to zero.
	if got := fold(sum(hdr, 0)); got != 0 {
		t.Errorf("verification fold = %#04x, want 0", got)
	}
}

func TestIPRejectsBadHeaders(t *testing.T) {
	if err := IP(make([]byte, 10)); err == nil {
		t.Error("expected error for short header")
	}

	hdr := knownHeader()
	hdr[0] = 0x46 // IHL says 24 bytes but only 20 supplied
	if err := IP(hdr); err == nil {
		t.Error("expected error for IHL mismatch")
	}
}

func TestTransportUDPSelfVerifies(t *testing.T) {
	src := []byte{10, 0, 0, 1}
	dst := []byte{10, 0, 0, 2}
	seg := []byte{
		0x04, 0xd2, 0x16, 0x2e, // ports 1234 -> 5678
		0x00, 0x0c, 0x00, 0x00, // length 12, checksum 0
		'h', 'i', '!', '!',
	}
	if err := Transport(ProtoUDP, src, dst, seg); err != nil {
		t.Fatalf("Transport() returned error: %v", err)
	}

	// Re-sum with the checksum in place: pseudo-header + segment must
	// fold to zero.
	acc := sum(src, 0)
	acc = sum(dst, acc)
	acc += ProtoUDP
	acc += uint32(len(seg))
	if got := fold(sum(seg, acc)); got != 0 {
		t.Errorf("verification fold = %#04x, want 0", got)
	}
}

func TestTransportTCPSelfVerifies(t *testing.T) {
	src := []byte{192, 168, 1, 1}
	dst := []byte{192, 168, 1, 2}
	seg := make([]byte, 28) // 20-byte header + 8 bytes of payload
	binary.BigEndian.PutUint16(seg[0:2], 443)
	binary.BigEndian.PutUint16(seg[2:4], 51000)
	seg[12] = 5 << 4 // data offset
	copy(seg[20:], "payload!")

	if err := Transport(ProtoTCP, src, dst, seg); err != nil {
		t.Fatalf("Transport() returned error: %v", err)
	}

	acc := sum(src, 0)
	acc = sum(dst, acc)
	acc += ProtoTCP
	acc += uint32(len(seg))
	if got := fold(sum(seg, acc)); got != 0 {
		t.Errorf("verification fold = %#04x, want 0", got)
	}
}

func TestTransportOddLength(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	dst := []byte{5, 6, 7, 8}
	seg := make([]byte, 9) // odd-length UDP datagram
	binary.BigEndian.PutUint16(seg[4:6], 9)
	seg[8] = 0xab

	if err := Transport(ProtoUDP, src, dst, seg); err != nil {
		t.Fatalf("Transport() returned error: %v", err)
	}
	acc := sum(src, 0)
	acc = sum(dst, acc)
	acc += ProtoUDP
	acc += uint32(len(seg))
	if got := fold(sum(seg, acc)); got != 0 {
		t.Errorf("verification fold = %#04x, want 0", got)
	}
}

func TestTransportRejectsBadInput(t *testing.T) {
	good := make([]byte, 20)
	if err := Transport(ProtoTCP, []byte{1, 2, 3}, []byte{1, 2, 3, 4}, good); err == nil {
		t.Error("expected error for short source address")
	}
	if err := Transport(50, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}, good); err == nil {
		t.Error("expected error for unsupported protocol")
	}
	if err := Transport(ProtoUDP, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}, make([]byte, 4)); err == nil {
		t.Error("expected error for short segment")
	}
}

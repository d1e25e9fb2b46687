package engine

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var testBase = time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)

func serialize(ls ...gopacket.SerializableLayer) []byte {
	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buffer, opts, ls...); err != nil {
		panic(err)
	}
	return buffer.Bytes()
}

func testEthernet(etherType layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{
		EthernetType: etherType,
		SrcMAC:       net.HardwareAddr{0xFF, 0xAA, 0xFA, 0xAA, 0xFF, 0xAA},
		DstMAC:       net.HardwareAddr{0xBD, 0xBD, 0xBD, 0xBD, 0xBD, 0xBD},
	}
}

// udpFrame builds a complete Ethernet/IPv4/UDP frame with valid
// lengths and checksums.
func udpFrame(src, dst string, payloadLen int) []byte {
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.ParseIP(src),
		DstIP:    net.ParseIP(dst),
	}
	udp := &layers.UDP{SrcPort: 4000, DstPort: 5000}
	udp.SetNetworkLayerForChecksum(ip)
	return serialize(testEthernet(layers.EthernetTypeIPv4), ip, udp, gopacket.Payload(make([]byte, payloadLen)))
}

// tcpFrame builds a complete Ethernet/IPv4/TCP frame with valid
// lengths and checksums.
func tcpFrame(src, dst string, payloadLen int) []byte {
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.ParseIP(src),
		DstIP:    net.ParseIP(dst),
	}
	tcp := &layers.TCP{SrcPort: 443, DstPort: 51000, DataOffset: 5}
	tcp.SetNetworkLayerForChecksum(ip)
	return serialize(testEthernet(layers.EthernetTypeIPv4), ip, tcp, gopacket.Payload(make([]byte, payloadLen)))
}

// arpFrame builds a non-IP frame for exercising the non-IPv4 paths.
func arpFrame() []byte {
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte{0xFF, 0xAA, 0xFA, 0xAA, 0xFF, 0xAA},
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{10, 0, 0, 2},
	}
	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buffer, opts, testEthernet(layers.EthernetTypeARP), arp); err != nil {
		panic(err)
	}
	return buffer.Bytes()
}

// packetAt wraps a frame in a Packet timestamped at testBase + offset.
func packetAt(frame []byte, offset time.Duration) Packet {
	data := make([]byte, len(frame))
	copy(data, frame)
	return Packet{
		Data:    data,
		CapLen:  len(frame),
		OrigLen: len(frame),
		Ts:      testBase.Add(offset),
	}
}

// truncatedPacket snapshots a frame down to capLen bytes while
// remembering the original length, the way a snaplen-limited capture
// would.
func truncatedPacket(frame []byte, capLen int, offset time.Duration) Packet {
	data := make([]byte, len(frame))
	copy(data, frame[:capLen])
	return Packet{
		Data:    data,
		CapLen:  capLen,
		OrigLen: len(frame),
		Ts:      testBase.Add(offset),
	}
}

// sliceSource replays a fixed set of packets.
type sliceSource struct {
	packets []Packet
	next    int
}

func (s *sliceSource) Next(p *Packet) bool {
	if s.next >= len(s.packets) {
		return false
	}
	*p = s.packets[s.next]
	s.next++
	return true
}

// recordWriter captures every frame written to it.
type recordWriter struct {
	name   string
	frames [][]byte
}

func (w *recordWriter) WritePacketData(frame []byte) error {
	saved := make([]byte, len(frame))
	copy(saved, frame)
	w.frames = append(w.frames, saved)
	return nil
}

func (w *recordWriter) Name() string { return w.name }

// flakyWriter fails with a transient buffer-full error a fixed number
// of times before succeeding.
type flakyWriter struct {
	recordWriter
	failures int
}

func (w *flakyWriter) WritePacketData(frame []byte) error {
	if w.failures > 0 {
		w.failures--
		return errors.Wrap(unix.ENOBUFS, "transmit buffer full on "+w.name)
	}
	return w.recordWriter.WritePacketData(frame)
}

// brokenWriter always fails with a permanent error.
type brokenWriter struct {
	name string
}

func (w *brokenWriter) WritePacketData(frame []byte) error {
	return errors.New("device went away")
}

func (w *brokenWriter) Name() string { return w.name }

// sleepRecorder stands in for time.Sleep and advances the fake clock,
// as a real sleep would advance the wall clock.
type sleepRecorder struct {
	clock *fakeClock
	naps  []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.naps = append(s.naps, d)
	s.clock.advance(d)
}

func (s *sleepRecorder) total() time.Duration {
	var t time.Duration
	for _, d := range s.naps {
		t += d
	}
	return t
}

// newTestEngine builds an engine with a controllable clock and sleep.
func newTestEngine(t interface{ Fatalf(string, ...interface{}) }, cfg Config, primary, secondary LinkWriter) (*Engine, *fakeClock, *sleepRecorder) {
	eng, err := New(cfg, primary, secondary)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	clock := &fakeClock{currTime: testBase}
	rec := &sleepRecorder{clock: clock}
	eng.pacer.clock = clock
	eng.pacer.sleep = rec.sleep
	return eng, clock, rec
}

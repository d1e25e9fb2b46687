package pcap

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Frame construction helpers for tests; this package's own tests use
// CreateUDPFrame.

func ethernetLayer(etherType layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{
		EthernetType: etherType,
		SrcMAC:       net.HardwareAddr{0xFF, 0xAA, 0xFA, 0xAA, 0xFF, 0xAA},
		DstMAC:       net.HardwareAddr{0xBD, 0xBD, 0xBD, 0xBD, 0xBD, 0xBD},
	}
}

// CreateUDPFrame builds a complete Ethernet/IPv4/UDP frame with valid
// lengths and checksums.
func CreateUDPFrame(src, dst net.IP, srcPort, dstPort int, payload []byte) []byte {
	ipLayer := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(srcPort),
		DstPort: layers.UDPPort(dstPort),
	}
	udpLayer.SetNetworkLayerForChecksum(ipLayer)

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	gopacket.SerializeLayers(buffer, opts,
		ethernetLayer(layers.EthernetTypeIPv4),
		ipLayer,
		udpLayer,
		gopacket.Payload(payload),
	)
	return buffer.Bytes()
}

// CreateTCPFrame builds a complete Ethernet/IPv4/TCP frame with valid
// lengths and checksums.
func CreateTCPFrame(src, dst net.IP, srcPort, dstPort int, payload []byte) []byte {
	ipLayer := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    src,
		DstIP:    dst,
	}
	tcpLayer := &layers.TCP{
		SrcPort:    layers.TCPPort(srcPort),
		DstPort:    layers.TCPPort(dstPort),
		DataOffset: 5,
	}
	tcpLayer.SetNetworkLayerForChecksum(ipLayer)

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	gopacket.SerializeLayers(buffer, opts,
		ethernetLayer(layers.EthernetTypeIPv4),
		ipLayer,
		tcpLayer,
		gopacket.Payload(payload),
	)
	return buffer.Bytes()
}

// CreateARPFrame builds a minimal non-IP frame for exercising the
// non-IPv4 paths.
func CreateARPFrame() []byte {
	arpLayer := &layers.ARP{
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
	gopacket.SerializeLayers(buffer, opts, ethernetLayer(layers.EthernetTypeARP), arpLayer)
	return buffer.Bytes()
}

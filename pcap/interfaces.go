package pcap

import (
	"net"

	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
)

// Interface describes an injectable network interface.
type Interface struct {
	Name        string
	Description string
	Addrs       []net.IP
}

// ListInterfaces enumerates interfaces eligible for injection.
func ListInterfaces() ([]Interface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list network interfaces")
	}

	out := make([]Interface, 0, len(devs))
	for _, dev := range devs {
		ifc := Interface{
			Name:        dev.Name,
			Description: dev.Description,
		}
		for _, addr := range dev.Addresses {
			ifc.Addrs = append(ifc.Addrs, addr.IP)
		}
		out = append(out, ifc)
	}
	return out, nil
}

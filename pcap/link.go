package pcap

import (
	"strings"

	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// The same default as tcpdump.
	defaultSnapLen = 262144
)

// LiveLink is a live injection handle on a network interface,
// satisfying the engine's LinkWriter contract: transient buffer-full
// failures are reported as errors matching unix.ENOBUFS.
type LiveLink struct {
	name   string
	handle *pcap.Handle
}

// OpenLink opens an interface for packet injection. This requires the
// same privileges as capturing on it.
func OpenLink(interfaceName string) (*LiveLink, error) {
	handle, err := pcap.OpenLive(interfaceName, defaultSnapLen, false, pcap.BlockForever)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s for injection", interfaceName)
	}
	return &LiveLink{name: interfaceName, handle: handle}, nil
}

// Name reports the interface name, used in error and stats output.
func (l *LiveLink) Name() string {
	return l.name
}

// WritePacketData injects one frame. libpcap surfaces a full transmit
// ring either as a raw errno or as message text depending on platform
// and version; both are normalized to unix.ENOBUFS here so the caller
// has exactly one transient case to match.
func (l *LiveLink) WritePacketData(frame []byte) error {
	err := l.handle.WritePacketData(frame)
	if err == nil {
		return nil
	}
	if isBufferFull(err) {
		return errors.Wrapf(unix.ENOBUFS, "transmit buffer full on %s", l.name)
	}
	return err
}

// Close releases the handle.
func (l *LiveLink) Close() {
	l.handle.Close()
}

func isBufferFull(err error) bool {
	if errors.Is(err, unix.ENOBUFS) || errors.Is(err, unix.EAGAIN) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "No buffer space available") ||
		strings.Contains(msg, "Resource temporarily unavailable")
}

// Package pcap binds the replay engine to capture files and live
// interfaces via gopacket.
package pcap

import (
	"io"
	"os"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	"github.com/tracereplay/replay-cli/engine"
	"github.com/tracereplay/replay-cli/printer"
)

// FileSource reads link-layer frames from a pcap savefile and presents
// them to the engine through its pull interface. The reader is pure Go
// (pcapgo), so opening a file needs no libpcap and no privileges.
type FileSource struct {
	path   string
	file   *os.File
	reader *pcapgo.Reader
}

// OpenFile opens a pcap savefile for replay.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open capture file %s", path)
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to parse capture file %s", path)
	}
	return &FileSource{path: path, file: f, reader: r}, nil
}

// LinkType reports the capture's link-layer type. Replay onto an
// Ethernet interface only makes sense for Ethernet captures.
func (s *FileSource) LinkType() layers.LinkType {
	return s.reader.LinkType()
}

// Next fills p with the next frame, reusing p.Data when possible. The
// buffer is sized to hold the original wire length so truncated frames
// can be padded back out. Returns false at end of stream; a mid-file
// read error also ends the stream, with a warning.
func (s *FileSource) Next(p *engine.Packet) bool {
	data, ci, err := s.reader.ReadPacketData()
	if err == io.EOF {
		return false
	}
	if err != nil {
		printer.Warningf("Stopping at unreadable packet in %s: %v\n", s.path, err)
		return false
	}

	need := ci.CaptureLength
	if ci.Length > need {
		need = ci.Length
	}
	if cap(p.Data) < need {
		p.Data = make([]byte, need)
	}
	p.Data = p.Data[:need]
	copy(p.Data, data)

	p.CapLen = ci.CaptureLength
	p.OrigLen = ci.Length
	p.Ts = ci.Timestamp
	return true
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

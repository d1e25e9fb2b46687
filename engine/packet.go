// Package engine replays captured link-layer frames onto live network
// interfaces: it filters, rewrites, paces and sends one packet at a
// time, in capture order.
package engine

import (
	"time"

	"github.com/pkg/errors"
)

// Packet is one captured link-layer frame. Data holds at least CapLen
// bytes; when the capture was snapshotted, OrigLen exceeds CapLen and
// Data is sized to hold OrigLen so the frame can be padded back out.
type Packet struct {
	Data    []byte
	CapLen  int
	OrigLen int
	Ts      time.Time
}

// Source produces packets one at a time, in capture order. Next fills
// p (reusing p.Data when it is large enough) and returns false at end
// of stream. The source owns capture-format concerns; the engine never
// sees the file format.
type Source interface {
	Next(p *Packet) bool
}

// LinkWriter is a live link-layer write endpoint. A transient
// buffer-full failure must be reported as an error matching
// unix.ENOBUFS under errors.Is; every other error is treated as fatal.
type LinkWriter interface {
	WritePacketData(frame []byte) error
	Name() string
}

// Destination is where a classified packet goes.
type Destination int

const (
	// Drop suppresses the packet entirely.
	Drop Destination = iota
	// Primary sends out the primary interface.
	Primary
	// Secondary sends out the secondary interface.
	Secondary
)

func (d Destination) String() string {
	switch d {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "drop"
	}
}

// ErrInterrupted is returned by Run when the engine observes the
// shutdown flag. The caller reports statistics and exits non-zero.
var ErrInterrupted = errors.New("replay interrupted")

package engine

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/tracereplay/replay-cli/printer"
)

// Engine drives the per-packet replay pipeline. All state is scoped to
// the engine value; the only cross-goroutine touch point is the
// shutdown flag, set by Interrupt and read at the top of each loop
// iteration.
type Engine struct {
	cfg       Config
	primary   LinkWriter
	secondary LinkWriter

	pacer *pacer
	stats Stats
	view  ipView

	stopped int32 // atomic
}

// New validates the configuration against the supplied writers and
// builds an engine. secondary may be nil for single-interface runs.
func New(cfg Config, primary, secondary LinkWriter) (*Engine, error) {
	if primary == nil {
		return nil, errors.New("a primary interface is required")
	}
	if err := cfg.validate(secondary); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		pacer:     newPacer(&cfg),
	}, nil
}

// Interrupt requests shutdown. It is safe to call from any goroutine
// (typically one draining signal.Notify) and performs no I/O or
// allocation. The engine observes the flag at the next loop boundary;
// an in-flight write is never cancelled mid-call.
func (e *Engine) Interrupt() {
	atomic.StoreInt32(&e.stopped, 1)
}

// Stats returns a snapshot of the run counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Run pulls packets from src until end of stream, processing each one
// completely before fetching the next. It returns ErrInterrupted if
// the shutdown flag was observed, or the first fatal error.
func (e *Engine) Run(src Source) error {
	var pkt Packet
	var last time.Time
	var ordinal uint64

	for src.Next(&pkt) {
		if atomic.LoadInt32(&e.stopped) != 0 {
			return ErrInterrupted
		}
		ordinal++

		// Index filter: a miss advances to the next packet with no
		// pacing and no counting beyond the skip itself.
		if !e.passesIndex(ordinal) {
			e.stats.countSkip("index")
			continue
		}

		// Frames shorter than an Ethernet header, non-IPv4 EtherTypes
		// and mangled IP headers all take the non-IP path: no CIDR
		// filtering, no martian check, no layer-3 rewriting.
		hasIP := e.view.load(pkt.Data, pkt.CapLen)

		if !e.passesCIDR(hasIP) {
			e.stats.countSkip("cidr")
			continue
		}

		if e.cfg.SkipMartians && hasIP && isMartian(&e.view) {
			printer.V(3).Debugf("Skipping martian packet %d\n", ordinal)
			e.stats.countSkip("martian")
			continue
		}

		dst, err := e.selectDestination(ordinal, hasIP)
		if err != nil {
			return err
		}
		if dst == Drop {
			e.stats.countSkip("drop")
			continue
		}

		rewriteMAC(pkt.Data, e.macFor(dst))

		if hasIP {
			if e.cfg.Trunc != TruncNone {
				e.untruncate(&pkt)
			}
			if e.cfg.HaveSeed {
				e.randomizeIPs()
			}
			// Mutation happened on the aligned view; put layer 3 and
			// above back into the frame before it goes on the wire.
			e.view.store(pkt.Data)
		}

		if e.cfg.Pacing != PaceTopSpeed {
			e.pacer.pace(pkt.Ts, last, pkt.CapLen)
		}

		if err := e.send(e.writerFor(dst), pkt.Data[:pkt.CapLen]); err != nil {
			return err
		}

		last = pkt.Ts
	}
	return nil
}

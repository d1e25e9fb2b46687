package engine

import (
	"time"
)

// pacer blocks the engine until it is time to emit the current packet.
// It accumulates virtual sleep time and compares it against real time
// elapsed since the first packet, so per-packet processing overhead is
// absorbed instead of drifting the replay.
type pacer struct {
	clock clockWrapper
	sleep func(time.Duration)

	mode       PacingMode
	multiplier float64
	rate       int

	start    time.Time
	didSleep time.Duration
}

func newPacer(cfg *Config) *pacer {
	return &pacer{
		clock:      &realClock{},
		sleep:      time.Sleep,
		mode:       cfg.Pacing,
		multiplier: cfg.Multiplier,
		rate:       cfg.Rate,
	}
}

// pace is called with the current packet's capture timestamp, the
// capture timestamp of the last-sent packet (zero on the first packet
// of the run), and the frame length.
func (p *pacer) pace(ts, last time.Time, length int) {
	now := p.clock.Now()

	var delta time.Duration
	if last.IsZero() {
		// First packet of the run: anchor the wall clock, never sleep.
		p.start = now
		p.didSleep = 0
	} else {
		delta = now.Sub(p.start)
	}

	var nap time.Duration
	switch p.mode {
	case PaceMultiplier:
		// A packet timestamped at or before its predecessor gets no nap:
		// sleep is never negative.
		if !last.IsZero() && ts.After(last) {
			nap = time.Duration(float64(ts.Sub(last)) / p.multiplier)
		}
	case PaceRate:
		if !last.IsZero() {
			nap = time.Duration(float64(length) / float64(p.rate) * float64(time.Second))
		}
	}

	p.didSleep += nap
	if p.didSleep > delta {
		// Best effort: an interrupted sleep is recomputed on the next
		// packet since didSleep still leads delta.
		p.sleep(p.didSleep - delta)
	}
}

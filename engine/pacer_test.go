package engine

import (
	"testing"
	"time"
)

func newTestPacer(cfg Config) (*pacer, *fakeClock, *sleepRecorder) {
	p := newPacer(&cfg)
	clock := &fakeClock{currTime: testBase}
	rec := &sleepRecorder{clock: clock}
	p.clock = clock
	p.sleep = rec.sleep
	return p, clock, rec
}

func TestPacerFirstPacketNeverSleeps(t *testing.T) {
	for _, cfg := range []Config{
		{Pacing: PaceMultiplier, Multiplier: 0.1},
		{Pacing: PaceRate, Rate: 1},
	} {
		p, _, rec := newTestPacer(cfg)
		p.pace(testBase.Add(time.Hour), time.Time{}, 1500)
		if len(rec.naps) != 0 {
			t.Errorf("mode %d: first packet slept %v", cfg.Pacing, rec.naps)
		}
	}
}

func TestPacerMultiplier(t *testing.T) {
	p, _, rec := newTestPacer(Config{Pacing: PaceMultiplier, Multiplier: 2.0})

	t0 := testBase
	t1 := t0.Add(2 * time.Second)

	p.pace(t0, time.Time{}, 100)
	p.pace(t1, t0, 100)

	if got, want := rec.total(), time.Second; got != want {
		t.Errorf("slept %v, want %v", got, want)
	}
}

func TestPacerMultiplierOutOfOrderTimestamp(t *testing.T) {
	p, _, rec := newTestPacer(Config{Pacing: PaceMultiplier, Multiplier: 1.0})

	t0 := testBase
	earlier := t0.Add(-3 * time.Second)

	p.pace(t0, time.Time{}, 100)
	// A packet timestamped before its predecessor must not produce a
	// negative (or any) sleep.
	p.pace(earlier, t0, 100)

	if len(rec.naps) != 0 {
		t.Errorf("slept %v for an out-of-order timestamp", rec.naps)
	}
}

func TestPacerConstantRate(t *testing.T) {
	p, _, rec := newTestPacer(Config{Pacing: PaceRate, Rate: 1000})

	// Capture timestamps are ignored in rate mode; feed them wildly
	// out of order to prove it.
	p.pace(testBase.Add(50*time.Hour), time.Time{}, 1000)
	p.pace(testBase, testBase.Add(50*time.Hour), 1000)
	p.pace(testBase.Add(time.Minute), testBase, 1000)

	// 1000-byte packets at 1000 bytes/sec: one second per packet after
	// the first.
	if got, want := rec.total(), 2*time.Second; got != want {
		t.Errorf("slept %v, want %v", got, want)
	}
	for i, nap := range rec.naps {
		if nap != time.Second {
			t.Errorf("nap %d = %v, want 1s", i, nap)
		}
	}
}

func TestPacerAbsorbsProcessingOverhead(t *testing.T) {
	p, clock, rec := newTestPacer(Config{Pacing: PaceMultiplier, Multiplier: 1.0})

	t0 := testBase
	t1 := t0.Add(time.Second)
	t2 := t1.Add(time.Second)

	p.pace(t0, time.Time{}, 100)

	// Processing the first packet took 300ms of real time; the nap for
	// the second packet shrinks accordingly.
	clock.advance(300 * time.Millisecond)
	p.pace(t1, t0, 100)
	if got, want := rec.naps[0], 700*time.Millisecond; got != want {
		t.Fatalf("first nap = %v, want %v", got, want)
	}

	p.pace(t2, t1, 100)

	// Total real time since start tracks total virtual time.
	if got, want := clock.currTime.Sub(t0), 2*time.Second; got != want {
		t.Errorf("elapsed %v, want %v", got, want)
	}
}

func TestPacerSkipsSleepWhenBehind(t *testing.T) {
	p, clock, rec := newTestPacer(Config{Pacing: PaceMultiplier, Multiplier: 1.0})

	t0 := testBase
	t1 := t0.Add(100 * time.Millisecond)

	p.pace(t0, time.Time{}, 100)

	// Real time is already 5s past the virtual schedule: no sleep.
	clock.advance(5 * time.Second)
	p.pace(t1, t0, 100)

	if len(rec.naps) != 0 {
		t.Errorf("slept %v while already behind schedule", rec.naps)
	}
}

func TestPacerConvergence(t *testing.T) {
	const mult = 4.0
	p, clock, rec := newTestPacer(Config{Pacing: PaceMultiplier, Multiplier: mult})

	// 100 packets, 200ms apart in the capture, with 10ms of simulated
	// processing overhead each.
	last := time.Time{}
	ts := testBase
	for i := 0; i < 100; i++ {
		p.pace(ts, last, 100)
		clock.advance(10 * time.Millisecond)
		last = ts
		ts = ts.Add(200 * time.Millisecond)
	}

	// Virtual span is 99 * 200ms / 4 = 4.95s; overhead ate 10ms per
	// packet of the sleep budget.
	virtual := time.Duration(99) * 200 * time.Millisecond / mult
	slept := rec.total()
	if slept > virtual {
		t.Errorf("slept %v, more than the virtual span %v", slept, virtual)
	}
	if virtual-slept > time.Second {
		t.Errorf("slept %v, want within 1s of %v", slept, virtual)
	}
}

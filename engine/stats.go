package engine

import (
	"github.com/tracereplay/replay-cli/metrics"
)

// Stats are the run counters. They are owned by a single engine and
// mutated only from its goroutine.
type Stats struct {
	PacketsSent uint64
	BytesSent   uint64
	// Retries counts transient buffer-full write failures. Each one was
	// retried until the write succeeded.
	Retries uint64
	Skipped uint64
}

func (s *Stats) countSent(n int) {
	s.PacketsSent++
	s.BytesSent += uint64(n)
	metrics.PacketsSent.Inc()
	metrics.BytesSent.Add(float64(n))
}

func (s *Stats) countRetry() {
	s.Retries++
	metrics.WriteRetries.Inc()
}

func (s *Stats) countSkip(reason string) {
	s.Skipped++
	metrics.PacketsSkipped.WithLabelValues(reason).Inc()
}

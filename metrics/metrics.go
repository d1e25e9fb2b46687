// Package metrics defines prometheus counters for the replay pipeline
// and an optional scrape endpoint.
//
// When adding new metrics, these are helpful values to track:
//   - packets and bytes entering or leaving the system
//   - the success or error status of writes
//   - why packets were skipped
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PacketsSent counts frames successfully written to an interface.
	// Provides metric:
	//    tracereplay_packets_sent_total
	PacketsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracereplay_packets_sent_total",
		Help: "Number of frames successfully written to an output interface.",
	})

	// BytesSent counts the bytes of every frame successfully written.
	// Provides metric:
	//    tracereplay_bytes_sent_total
	BytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracereplay_bytes_sent_total",
		Help: "Number of frame bytes successfully written to an output interface.",
	})

	// WriteRetries counts transient buffer-full write failures that
	// were retried.
	// Provides metric:
	//    tracereplay_write_retries_total
	WriteRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracereplay_write_retries_total",
		Help: "Number of link-layer writes retried after a transient buffer-full failure.",
	})

	// PacketsSkipped counts packets dropped before sending, by reason.
	// Reasons: index, cidr, martian, drop.
	// Provides metric:
	//    tracereplay_packets_skipped_total
	PacketsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracereplay_packets_skipped_total",
		Help: "Number of packets skipped before sending, by filter reason.",
	}, []string{"reason"})
)

// Serve exposes /metrics on addr. It blocks, so callers run it in its
// own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

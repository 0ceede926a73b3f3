// Package metrics wraps the Prometheus client library into the
// counters and gauges the server listener reports against, grounded
// on the pack's use of github.com/prometheus/client_golang.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loncothad/socker/internal/netutil"
)

// Recorder implements server.SessionRecorder and netutil.ByteCounter,
// reporting session lifecycle and relay throughput to Prometheus.
type Recorder struct {
	sessionsTotal     *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	bytesRelayed      *prometheus.CounterVec
	handshakeDuration prometheus.Histogram
}

var _ netutil.ByteCounter = (*Recorder)(nil)

// NewRecorder builds and registers a Recorder against reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socker_sessions_total",
			Help: "Total SOCKS5 sessions served, labeled by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "socker_active_sessions",
			Help: "Number of SOCKS5 sessions currently being served.",
		}),
		bytesRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socker_bytes_relayed_total",
			Help: "Bytes relayed between client and target, labeled by direction.",
		}, []string{"direction"}),
		handshakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "socker_handshake_duration_seconds",
			Help:    "Duration of the SOCKS5 handshake phase, before relay begins.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.sessionsTotal, r.activeSessions, r.bytesRelayed, r.handshakeDuration)
	return r
}

// SessionStarted increments the active session gauge.
func (r *Recorder) SessionStarted() { r.activeSessions.Inc() }

// SessionEnded decrements the active session gauge and records the
// session's outcome.
func (r *Recorder) SessionEnded(success bool) {
	r.activeSessions.Dec()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.sessionsTotal.WithLabelValues(outcome).Inc()
}

// AddBytes implements netutil.ByteCounter.
func (r *Recorder) AddBytes(direction string, n int64) {
	r.bytesRelayed.WithLabelValues(direction).Add(float64(n))
}

// ObserveHandshakeDuration records how long a completed handshake took.
func (r *Recorder) ObserveHandshakeDuration(seconds float64) {
	r.handshakeDuration.Observe(seconds)
}

// Package metrics exposes Prometheus instrumentation for enrollment and
// verification. All methods are safe to call on a nil *Recorder, which
// records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lockwise"

// Verification outcomes.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Adaptive update results.
const (
	UpdateApplied  = "applied"
	UpdateConflict = "conflict"
	UpdateFailed   = "failed"
)

type Recorder struct {
	registry *prometheus.Registry

	verifications   *prometheus.CounterVec
	distance        prometheus.Histogram
	templateUpdates *prometheus.CounterVec
	enrollments     *prometheus.CounterVec
	requests        *prometheus.CounterVec
}

// NewRecorder registers the LockWise collectors on a private registry, so
// the exported set does not depend on whatever else uses the default one.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		verifications: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "attempts_total",
			Help:      "Verification attempts by outcome.",
		}, []string{"outcome"}),
		distance: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "distance",
			Help:      "Distance between the sample and the stored reference.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.35, 0.4, 0.45, 0.5, 0.6, 0.8, 1, 1.5},
		}),
		templateUpdates: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "template",
			Name:      "adaptive_updates_total",
			Help:      "Adaptive reference updates by result.",
		}, []string{"result"}),
		enrollments: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "template",
			Name:      "enrollments_total",
			Help:      "Enrollment requests by result kind.",
		}, []string{"result"}),
		requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests by transport, method and status.",
		}, []string{"transport", "method", "status"}),
	}
}

// Verification records one Verify call. distance is ignored for errors.
func (r *Recorder) Verification(outcome string, distance float64) {
	if r == nil {
		return
	}
	r.verifications.WithLabelValues(outcome).Inc()
	if outcome != OutcomeError {
		r.distance.Observe(distance)
	}
}

func (r *Recorder) TemplateUpdate(result string) {
	if r == nil {
		return
	}
	r.templateUpdates.WithLabelValues(result).Inc()
}

// Enrollment records an enrollment attempt; result is "ok" or an error kind.
func (r *Recorder) Enrollment(result string) {
	if r == nil {
		return
	}
	r.enrollments.WithLabelValues(result).Inc()
}

func (r *Recorder) Request(transport, method, status string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(transport, method, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

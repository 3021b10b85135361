package waitlist

import (
	"time"

	apperrors "github.com/akeren/levelup-fit/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	submitsTotal         *prometheus.CounterVec
	registrationsTotal   *prometheus.CounterVec
	registrationDuration prometheus.Histogram
	inFlight             prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		submitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_submits_total",
				Help: "Waitlist form submit attempts by outcome.",
			},
			[]string{"outcome"},
		),
		registrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_registrations_total",
				Help: "Completed waitlist registrations by result or error type.",
			},
			[]string{"result"},
		),
		registrationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waitlist_registration_duration_seconds",
				Help:    "Time spent in the waitlist registrar.",
				Buckets: prometheus.DefBuckets,
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "waitlist_submissions_in_flight",
				Help: "Waitlist submissions currently in the Submitting state.",
			},
		),
	}

	reg.MustRegister(m.submitsTotal, m.registrationsTotal, m.registrationDuration, m.inFlight)
	return m
}

func (m *Metrics) observeOutcome(outcome SubmitOutcome) {
	if m == nil {
		return
	}
	m.submitsTotal.WithLabelValues(outcome.String()).Inc()
}

func (m *Metrics) submissionStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) submissionFinished(err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.inFlight.Dec()
	m.registrationsTotal.WithLabelValues(apperrors.MetricLabel(err)).Inc()
	m.registrationDuration.Observe(elapsed.Seconds())
}

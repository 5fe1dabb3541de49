package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSaved   = "saved"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CandidatesTotal   *prometheus.CounterVec
	SearchesTotal     *prometheus.CounterVec
	IconFailuresTotal prometheus.Counter
	RunDuration       prometheus.Histogram
}

// NewMetrics registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CandidatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brandshot_candidates_total",
			Help: "Candidate photos processed, by outcome.",
		}, []string{"outcome"}), // saved, skipped, failed
		SearchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brandshot_search_requests_total",
			Help: "Photo search requests, by status.",
		}, []string{"status"}),
		IconFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "brandshot_icon_fetch_failures_total",
			Help: "Icons replaced by a transparent placeholder.",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "brandshot_run_duration_seconds",
			Help:    "Duration of a full search-and-render run.",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
	}
}

func (m *Metrics) IncCandidate(outcome string) {
	m.CandidatesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSearch(status string) {
	m.SearchesTotal.WithLabelValues(status).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	RatingOutcomeCreated  = "created"
	RatingOutcomeUpdated  = "updated"
	RatingOutcomeRejected = "rejected"
	RatingOutcomeFailed   = "failed"
)

// RatingMetrics counts rating submissions by outcome.
type RatingMetrics struct {
	submitted *prometheus.CounterVec
}

func NewRatingMetrics(reg prometheus.Registerer) *RatingMetrics {
	if reg == nil {
		return &RatingMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratings_submitted_total",
		Help: "Rating submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(submitted)
	return &RatingMetrics{submitted: submitted}
}

func (m *RatingMetrics) IncSubmitted(outcome string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(outcome)).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the cases module: creation volume,
// status-change outcomes, and contention on the optimistic-concurrency path.
type Metrics struct {
	CasesCreated         prometheus.Counter
	StatusChanges        *prometheus.CounterVec
	VersionConflicts     prometheus.Counter
	CaseNumberDuration   prometheus.Histogram
	UpdateStatusDuration prometheus.Histogram
}

// New registers all cases-module metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CasesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_created_total",
			Help: "Total number of cases created",
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_status_changes_total",
			Help: "Status change attempts by outcome",
		}, []string{"outcome"}),
		VersionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_version_conflicts_total",
			Help: "Optimistic-concurrency conflicts surfaced to callers",
		}),
		CaseNumberDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_case_number_duration_seconds",
			Help:    "Duration of case number issuance (sequence increment path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UpdateStatusDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_update_status_duration_seconds",
			Help:    "Duration of UpdateStatus operations (CAS critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCaseNumber records the duration of a case number issuance.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCaseNumber(start time.Time) {
	m.CaseNumberDuration.Observe(time.Since(start).Seconds())
}

// ObserveUpdateStatus records the duration of an UpdateStatus operation.
func (m *Metrics) ObserveUpdateStatus(start time.Time) {
	m.UpdateStatusDuration.Observe(time.Since(start).Seconds())
}

// RecordStatusChange counts a status-change attempt by outcome
// ("success", "conflict", "rejected").
func (m *Metrics) RecordStatusChange(outcome string) {
	m.StatusChanges.WithLabelValues(outcome).Inc()
}

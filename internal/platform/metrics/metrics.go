package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the moderation core. Tracks mutation
// counts per operation and the duration of queue queries.
type Metrics struct {
	ListingsCreated prometheus.Counter
	ListingsUpdated prometheus.Counter
	StatusChanges   *prometheus.CounterVec
	AuditAppended   prometheus.Counter
	QueryDuration   prometheus.Histogram
}

// New creates a Metrics instance with all moderation metrics registered.
func New() *Metrics {
	return &Metrics{
		ListingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "modqueue_listings_created_total",
			Help: "Total number of listings inserted into the queue",
		}),
		ListingsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "modqueue_listings_updated_total",
			Help: "Total number of listing field edits",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "modqueue_status_changes_total",
			Help: "Total number of listing status transitions by new status",
		}, []string{"status"}),
		AuditAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "modqueue_audit_events_total",
			Help: "Total number of audit events appended",
		}),
		QueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "modqueue_query_duration_seconds",
			Help:    "Duration of listing queue queries (filter+search+page)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementListingsCreated records a successful insert.
func (m *Metrics) IncrementListingsCreated() {
	if m == nil {
		return
	}
	m.ListingsCreated.Inc()
}

// IncrementListingsUpdated records a successful field edit.
func (m *Metrics) IncrementListingsUpdated() {
	if m == nil {
		return
	}
	m.ListingsUpdated.Inc()
}

// IncrementStatusChanges records a status transition by its new status.
func (m *Metrics) IncrementStatusChanges(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

// IncrementAuditAppended records one appended audit event.
func (m *Metrics) IncrementAuditAppended() {
	if m == nil {
		return
	}
	m.AuditAppended.Inc()
}

// ObserveQuery records the duration of a queue query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveQuery(start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.Observe(time.Since(start).Seconds())
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersRecorded      *prometheus.CounterVec
	ProductsIncremented prometheus.Counter
	BundlesRedeemed     prometheus.Counter

	JobRuns    *prometheus.CounterVec
	JobSeconds *prometheus.HistogramVec
	JobChunks  *prometheus.CounterVec
	JobUpdates *prometheus.CounterVec
	TenantBusy *prometheus.CounterVec
	Fallbacks  *prometheus.CounterVec
}

const (
	ns = "salespulse"

	LabelResult = "result"
	LabelJob    = "job"
	LabelQuery  = "query"

	ResultRecorded  = "recorded"
	ResultDuplicate = "duplicate"
	ResultEmpty     = "empty"
	ResultSuccess   = "success"
	ResultFailed    = "failed"

	JobRollup   = "rollup"
	JobBackfill = "backfill"
)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OrdersRecorded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "orders_total", Namespace: ns, Subsystem: "recorder",
			Help: "Orders handled by the sale recorder, by result (recorded, duplicate, empty, failed).",
		}, []string{LabelResult}),
		ProductsIncremented: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "product_increments_total", Namespace: ns, Subsystem: "recorder",
			Help: "Product counter increments committed by the sale recorder.",
		}),
		BundlesRedeemed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "bundle_redemptions_total", Namespace: ns, Subsystem: "recorder",
			Help: "Bundle redemptions committed by the sale recorder.",
		}),

		JobRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "runs_total", Namespace: ns, Subsystem: "jobs",
			Help: "Rollup and backfill runs per tenant, by result.",
		}, []string{LabelJob, LabelResult}),
		JobSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "run_seconds", Namespace: ns, Subsystem: "jobs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			Help:    "Duration of one tenant's rollup or backfill run.",
		}, []string{LabelJob}),
		JobChunks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "committed_chunks_total", Namespace: ns, Subsystem: "jobs",
			Help: "Batched commits issued by rollup and backfill.",
		}, []string{LabelJob}),
		JobUpdates: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "updated_products_total", Namespace: ns, Subsystem: "jobs",
			Help: "Product documents rewritten by rollup and backfill.",
		}, []string{LabelJob}),
		TenantBusy: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tenant_busy_total", Namespace: ns, Subsystem: "jobs",
			Help: "Runs skipped because another run held the tenant lock.",
		}, []string{LabelJob}),
		Fallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "query_fallbacks_total", Namespace: ns, Subsystem: "storage",
			Help: "Precise queries the store rejected and that were replaced by a broad scan.",
		}, []string{LabelQuery}),
	}
}

// Discard returns collectors registered nowhere, for tests and one-shot runs.
func Discard() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// OnDegrade counts a query fallback. It matches storage.FallbackQuery.OnDegrade.
func (m *Metrics) OnDegrade(name string, _ error) {
	m.Fallbacks.WithLabelValues(name).Inc()
}

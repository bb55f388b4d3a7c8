package metrics

import "github.com/prometheus/client_golang/prometheus"

// Store write results.
const (
	WriteInserted = "inserted"
	WriteSkipped  = "skipped"
	WriteError    = "error"
)

// StoreMetrics covers the space address dedup store.
type StoreMetrics struct {
	WritesTotal     *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ConflictRetries *prometheus.CounterVec
}

func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{
		WritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "store_writes_total",
			Help:        "Set-if-absent calls by backend and result",
			ConstLabels: constLabels(),
		}, []string{"backend", "result"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "store_cache_lookups_total",
			Help:        "Known-address cache lookups by result",
			ConstLabels: constLabels(),
		}, []string{"result"}),
		ConflictRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "store_conflict_retries_total",
			Help:        "Transactions retried after a write conflict",
			ConstLabels: constLabels(),
		}, []string{"backend"}),
	}
}

func (s *StoreMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(s.WritesTotal, s.CacheLookups, s.ConflictRetries)
}

func TrackStoreWrite(backend, result string) {
	GetMetrics().Store.WritesTotal.WithLabelValues(backend, result).Inc()
}

func TrackCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	GetMetrics().Store.CacheLookups.WithLabelValues(result).Inc()
}

func TrackConflictRetry(backend string) {
	GetMetrics().Store.ConflictRetries.WithLabelValues(backend).Inc()
}

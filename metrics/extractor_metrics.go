package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geobrowser/geo-stream/types"
)

var ExtractorLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}

// ExtractorMetrics is labeled by extractor name.
type ExtractorMetrics struct {
	RecordsTotal  *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	FailuresTotal *prometheus.CounterVec
}

func NewExtractorMetrics() *ExtractorMetrics {
	return &ExtractorMetrics{
		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "extractor_records_total",
			Help:        "Total number of records emitted per extractor",
			ConstLabels: constLabels(),
		}, []string{"extractor"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "extractor_duration_seconds",
			Help:        "Time spent running an extractor over one block",
			Buckets:     ExtractorLatencyBuckets,
			ConstLabels: constLabels(),
		}, []string{"extractor"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "extractor_failures_total",
			Help:        "Total number of blocks an extractor failed on",
			ConstLabels: constLabels(),
		}, []string{"extractor", "error_type"}),
	}
}

func (e *ExtractorMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(e.RecordsTotal, e.Duration, e.FailuresTotal)
}

// ObserveExtractor records one extractor run.
func ObserveExtractor(name string, records int, elapsed time.Duration, err error) {
	m := GetMetrics().Extractor
	m.Duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		m.FailuresTotal.WithLabelValues(name, ErrorType(err)).Inc()
		return
	}
	m.RecordsTotal.WithLabelValues(name).Add(float64(records))
}

// ErrorType maps err to a low-cardinality label value.
func ErrorType(err error) string {
	for _, t := range []types.ErrorType{
		types.ErrTypeMalformedPayload,
		types.ErrTypeUpstreamMissing,
		types.ErrTypeDatabase,
		types.ErrTypeNetwork,
		types.ErrTypeTimeout,
		types.ErrTypeValidation,
		types.ErrTypeInvalidValue,
		types.ErrTypeNotFound,
		types.ErrTypeConfig,
		types.ErrTypeInternal,
	} {
		if types.IsErrorType(err, t) {
			return string(t)
		}
	}
	return "unknown"
}

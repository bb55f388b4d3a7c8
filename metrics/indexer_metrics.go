package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	IndexerLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}
)

// Indexer pipeline stages used as the "stage" label.
const (
	StageScrape  = "scrape"
	StageExtract = "extract"
	StageStore   = "store"
	StageSink    = "sink"
)

// IndexerMetrics groups indexer-related metrics
type IndexerMetrics struct {
	BlocksProcessedTotal prometheus.Counter
	LogsScannedTotal     prometheus.Counter
	RecordsEmittedTotal  prometheus.Counter
	CurrentBlockHeight   prometheus.Gauge
	BlockProcessingTime  *prometheus.HistogramVec
	ProcessingErrors     *prometheus.CounterVec
}

// NewIndexerMetrics creates and returns indexer metrics
func NewIndexerMetrics() *IndexerMetrics {
	return &IndexerMetrics{
		BlocksProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "blocks_processed_total",
			Help:        "Total number of blocks processed",
			ConstLabels: constLabels(),
		}),
		LogsScannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "logs_scanned_total",
			Help:        "Total number of logs handed to the extractors",
			ConstLabels: constLabels(),
		}),
		RecordsEmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_emitted_total",
			Help:        "Total number of records in aggregated block outputs",
			ConstLabels: constLabels(),
		}),
		CurrentBlockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "current_block_height",
			Help:        "Last block height fully processed",
			ConstLabels: constLabels(),
		}),
		BlockProcessingTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "block_processing_duration_seconds",
			Help:        "Time spent per pipeline stage",
			Buckets:     IndexerLatencyBuckets,
			ConstLabels: constLabels(),
		}, []string{"stage"}),
		ProcessingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "processing_errors_total",
			Help:        "Total number of processing errors",
			ConstLabels: constLabels(),
		}, []string{"stage", "error_type"}),
	}
}

// Register registers all indexer metrics with the given registry
func (i *IndexerMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		i.BlocksProcessedTotal,
		i.LogsScannedTotal,
		i.RecordsEmittedTotal,
		i.CurrentBlockHeight,
		i.BlockProcessingTime,
		i.ProcessingErrors,
	)
}

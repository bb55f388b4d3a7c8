package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geobrowser/geo-stream/config"
)

const namespace = "geo_stream"

// DBStatsProvider interface for getting database statistics
type DBStatsProvider interface {
	GetDBStats() (*sql.DBStats, error)
}

// Metrics contains all metric groups
type Metrics struct {
	Database  *DatabaseMetrics
	Indexer   *IndexerMetrics
	Extractor *ExtractorMetrics
	Store     *StoreMetrics
	Error     *ErrorMetrics
}

var (
	registry *prometheus.Registry
	metrics  *Metrics

	dbStatsUpdater *DBStatsUpdater
	updaterMtx     sync.Mutex

	initOnce sync.Once

	chainId string
)

// constLabels returns the constant labels to be added to all metrics
func constLabels() prometheus.Labels {
	if chainId == "" {
		return nil
	}
	return prometheus.Labels{"chain_id": chainId}
}

// MetricsServer represents the Prometheus metrics HTTP server
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
	cfg    *config.MetricsConfig
}

// Init creates the registry and registers every metric group. Only the first
// call has any effect; id becomes the chain_id label of all metrics.
func Init(id string) {
	initOnce.Do(func() {
		chainId = id
		registry = prometheus.NewRegistry()

		metrics = &Metrics{
			Database:  NewDatabaseMetrics(),
			Indexer:   NewIndexerMetrics(),
			Extractor: NewExtractorMetrics(),
			Store:     NewStoreMetrics(),
			Error:     NewErrorMetrics(),
		}

		metrics.Database.Register(registry)
		metrics.Indexer.Register(registry)
		metrics.Extractor.Register(registry)
		metrics.Store.Register(registry)
		metrics.Error.Register(registry)

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// NewServer creates a new metrics server
func NewServer(cfg *config.Config, logger *slog.Logger) *MetricsServer {
	metricsConfig := cfg.GetMetricsConfig()
	Init(cfg.GetChainId())

	mux := http.NewServeMux()
	mux.Handle(metricsConfig.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	server := &http.Server{
		Addr:              ":" + metricsConfig.Port,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return &MetricsServer{
		server: server,
		logger: logger.With("component", "metrics"),
		cfg:    metricsConfig,
	}
}

// Start blocks serving metrics until Shutdown. It returns immediately when
// metrics are disabled.
func (m *MetricsServer) Start() error {
	if !m.cfg.Enabled {
		m.logger.Info("metrics server disabled")
		return nil
	}

	m.logger.Info("starting metrics server",
		slog.String("addr", m.server.Addr),
		slog.String("path", m.cfg.Path))

	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the metrics server
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	StopDBStatsUpdater()
	if !m.cfg.Enabled {
		return nil
	}

	m.logger.Info("shutting down metrics server")
	return m.server.Shutdown(ctx)
}

// GetMetrics returns the global metrics instance, initializing it without a
// chain label when Init has not run yet.
func GetMetrics() *Metrics {
	Init("")
	return metrics
}

// Registry returns the registry all metric groups are registered with.
func Registry() *prometheus.Registry {
	Init("")
	return registry
}

// StartDBStatsUpdater starts periodic database statistics collection
func StartDBStatsUpdater(provider DBStatsProvider, logger *slog.Logger) {
	updaterMtx.Lock()
	defer updaterMtx.Unlock()
	if dbStatsUpdater != nil {
		return
	}

	dbStatsUpdater = NewDBStatsUpdater(provider, logger, GetMetrics().Database)
	dbStatsUpdater.Start()
}

// StopDBStatsUpdater stops the database statistics collection
func StopDBStatsUpdater() {
	updaterMtx.Lock()
	defer updaterMtx.Unlock()
	if dbStatsUpdater != nil {
		dbStatsUpdater.Stop()
		dbStatsUpdater = nil
	}
}

package store

import (
	"context"
	"log/slog"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/orm"
)

// Open builds the store selected by STORE_BACKEND, wrapped in a cache of known
// keys when CACHE_SIZE is positive. It returns the backend name with it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, string, error) {
	storeCfg := cfg.GetStoreConfig()

	var (
		s   Store
		err error
	)
	switch storeCfg.Backend {
	case config.StoreBackendBadger:
		bcfg := DefaultBadgerConfig(storeCfg.BadgerDir)
		bcfg.Logger = logger
		s, err = OpenBadger(bcfg)
	default:
		s, err = openSQL(ctx, cfg, logger)
	}
	if err != nil {
		return nil, "", err
	}

	if storeCfg.CacheSize > 0 {
		s = NewCachedStore(s, storeCfg.CacheSize)
	}
	return s, storeCfg.Backend, nil
}

func openSQL(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	db, err := orm.OpenDB(cfg.GetDBConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.GetMetricsConfig().Enabled {
		metrics.StartDBStatsUpdater(db, logger)
	}
	return NewSQLStore(db), nil
}

package config

import "github.com/geobrowser/geo-stream/types"

type Config struct {
	DSN         string
	AutoMigrate bool
	MaxConns    int
	IdleConns   int
	BatchSize   int
}

func (c Config) Validate() error {
	if c.DSN == "" {
		return types.NewValidationError("DB_DSN", "required field is missing")
	}
	// 0 leaves the pool unbounded
	if c.MaxConns < 0 {
		return types.NewValidationError("DB_MAX_CONNS", "must be non-negative")
	}
	if c.IdleConns < 1 {
		return types.NewValidationError("DB_IDLE_CONNS", "must be at least 1")
	}
	if c.BatchSize < 1 {
		return types.NewValidationError("DB_BATCH_SIZE", "must be at least 1")
	}
	return nil
}

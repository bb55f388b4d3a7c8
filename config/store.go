package config

import (
	"fmt"

	"github.com/geobrowser/geo-stream/types"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendBadger   = "badger"
)

// StoreConfig selects where the space address dedup table lives. A CacheSize
// of 0 disables the in-process cache of known addresses.
type StoreConfig struct {
	Backend   string `json:"backend"`
	BadgerDir string `json:"badger_dir"`
	CacheSize int    `json:"cache_size"`
}

func (sc StoreConfig) Validate() error {
	switch sc.Backend {
	case StoreBackendPostgres:
	case StoreBackendBadger:
		if sc.BadgerDir == "" {
			return types.NewValidationError("BADGER_DIR", "required when STORE_BACKEND is badger")
		}
	default:
		return types.NewValidationError("STORE_BACKEND", fmt.Sprintf("invalid value '%s', must be 'postgres' or 'badger'", sc.Backend))
	}

	if sc.CacheSize < 0 {
		return types.NewValidationError("CACHE_SIZE", "must be non-negative")
	}
	return nil
}

// RabbitMQConfig configures the optional stream sink for per-block output.
type RabbitMQConfig struct {
	Enabled    bool   `json:"enabled"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	VHost      string `json:"vhost"`
	User       string `json:"user"`
	Password   string `json:"-"`
	Partitions int    `json:"partitions"`
}

func (rc RabbitMQConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}
	if rc.Host == "" {
		return types.NewValidationError("RABBITMQ_HOST", "required when MQ_ENABLED is true")
	}
	if rc.Port < MinPortNumber || rc.Port > MaxPortNumber {
		return types.NewValidationError("RABBITMQ_PORT", fmt.Sprintf("must be a valid port number (%d-%d)", MinPortNumber, MaxPortNumber))
	}
	if rc.Partitions < 1 {
		return types.NewValidationError("RABBITMQ_PARTITIONS", "must be at least 1")
	}
	return nil
}

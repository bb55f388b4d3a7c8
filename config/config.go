package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	dbconfig "github.com/geobrowser/geo-stream/orm/config"
	"github.com/geobrowser/geo-stream/types"
)

var (
	Version    = "dev"
	CommitHash = "unknown"

	// Singleton instance
	configInstance *Config
	configOnce     sync.Once
)

// Default configuration constants
const (
	DefaultMetricsPort = "9090"
	MinPortNumber      = 1
	MaxPortNumber      = 65535

	// Database settings
	DefaultDBMaxConns  = 0 // 0 means unlimited (GORM default)
	DefaultDBIdleConns = 2 // GORM default
	DefaultDBBatchSize = 100

	// Chain settings
	DefaultBlockRange = 100

	// Store settings
	DefaultStoreBackend = StoreBackendPostgres
	DefaultBadgerDir    = "data/badger"
	DefaultCacheSize    = 10000

	// Timeout and interval settings
	DefaultQueryTimeout    = 30 * time.Second
	DefaultPollingInterval = 3 * time.Second

	// RabbitMQ settings
	DefaultRabbitMQPort       = 5552
	DefaultRabbitMQVHost      = "/"
	DefaultRabbitMQPartitions = 1

	DefaultMetricsPath = "/metrics"
	DefaultEnvironment = "local"
)

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	Port    string `json:"port"`
}

// SentryConfig contains configuration for Sentry integration
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	SampleRate       float64 `json:"sample_rate"`        // General sample rate (fallback)
	TracesSampleRate float64 `json:"traces_sample_rate"` // Traces sample rate
	Environment      string  `json:"environment"`
}

func SetBuildInfo(v, commit string) {
	Version = v
	CommitHash = commit
}

type Config struct {
	chainConfig     *ChainConfig
	dbConfig        *dbconfig.Config
	storeConfig     *StoreConfig
	rabbitMQConfig  *RabbitMQConfig
	metricsConfig   *MetricsConfig
	sentryConfig    *SentryConfig
	logLevel        string
	logFormat       string
	queryTimeout    time.Duration
	pollingInterval time.Duration
}

func setDefaults() {
	viper.SetDefault("START_BLOCK", 0)
	viper.SetDefault("END_BLOCK", 0)
	viper.SetDefault("BLOCK_RANGE", DefaultBlockRange)
	viper.SetDefault("QUERY_TIMEOUT", DefaultQueryTimeout)
	viper.SetDefault("POLLING_INTERVAL", DefaultPollingInterval)

	viper.SetDefault("STORE_BACKEND", DefaultStoreBackend)
	viper.SetDefault("BADGER_DIR", DefaultBadgerDir)
	viper.SetDefault("CACHE_SIZE", DefaultCacheSize)

	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("DB_BATCH_SIZE", DefaultDBBatchSize)
	viper.SetDefault("DB_MAX_CONNS", DefaultDBMaxConns)
	viper.SetDefault("DB_IDLE_CONNS", DefaultDBIdleConns)

	viper.SetDefault("LOG_LEVEL", "warn")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_PATH", DefaultMetricsPath)
	viper.SetDefault("METRICS_PORT", DefaultMetricsPort)

	viper.SetDefault("MQ_ENABLED", false)
	viper.SetDefault("RABBITMQ_PORT", DefaultRabbitMQPort)
	viper.SetDefault("RABBITMQ_VHOST", DefaultRabbitMQVHost)
	viper.SetDefault("RABBITMQ_PARTITIONS", DefaultRabbitMQPartitions)

	viper.SetDefault("ENVIRONMENT", DefaultEnvironment)

	// Sentry defaults
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("SENTRY_SAMPLE_RATE", 0.01)
	viper.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.01)

	//  CHAIN_ID, RPC_URL and DB_DSN have no defaults
}

func GetConfig() (*Config, error) {
	var err error

	configOnce.Do(func() {
		configInstance, err = loadConfig()
	})

	return configInstance, err
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); errors.Is(err, fs.ErrNotExist) {
		// just log without panic, local testing purpose only
		fmt.Fprintln(os.Stderr, "No .env file found")
	} else if err != nil {
		return nil, types.NewConfigError("failed to parse .env", err)
	}
	viper.AutomaticEnv()
	setDefaults()

	startBlock, err := parseBlock("START_BLOCK")
	if err != nil {
		return nil, err
	}
	endBlock, err := parseBlock("END_BLOCK")
	if err != nil {
		return nil, err
	}

	config := &Config{
		chainConfig: &ChainConfig{
			ChainId:    viper.GetString("CHAIN_ID"),
			RpcUrl:     viper.GetString("RPC_URL"),
			StartBlock: startBlock,
			EndBlock:   endBlock,
			BlockRange: viper.GetUint64("BLOCK_RANGE"),
		},
		dbConfig: &dbconfig.Config{
			DSN:         viper.GetString("DB_DSN"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
			MaxConns:    viper.GetInt("DB_MAX_CONNS"),
			IdleConns:   viper.GetInt("DB_IDLE_CONNS"),
			BatchSize:   viper.GetInt("DB_BATCH_SIZE"),
		},
		storeConfig: &StoreConfig{
			Backend:   viper.GetString("STORE_BACKEND"),
			BadgerDir: viper.GetString("BADGER_DIR"),
			CacheSize: viper.GetInt("CACHE_SIZE"),
		},
		rabbitMQConfig: &RabbitMQConfig{
			Enabled:    viper.GetBool("MQ_ENABLED"),
			Host:       viper.GetString("RABBITMQ_HOST"),
			Port:       viper.GetInt("RABBITMQ_PORT"),
			VHost:      viper.GetString("RABBITMQ_VHOST"),
			User:       viper.GetString("RABBITMQ_USER"),
			Password:   viper.GetString("RABBITMQ_PASSWORD"),
			Partitions: viper.GetInt("RABBITMQ_PARTITIONS"),
		},
		metricsConfig: &MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
			Port:    viper.GetString("METRICS_PORT"),
		},
		sentryConfig: &SentryConfig{
			DSN:              viper.GetString("SENTRY_DSN"),
			SampleRate:       viper.GetFloat64("SENTRY_SAMPLE_RATE"),
			TracesSampleRate: viper.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
			Environment:      viper.GetString("ENVIRONMENT"),
		},
		logLevel:        viper.GetString("LOG_LEVEL"),
		logFormat:       viper.GetString("LOG_FORMAT"),
		queryTimeout:    viper.GetDuration("QUERY_TIMEOUT"),
		pollingInterval: viper.GetDuration("POLLING_INTERVAL"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// parseBlock reads an optional non-negative block number.
func parseBlock(key string) (uint64, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.NewInvalidValueError(key, raw, "must be a non-negative integer")
	}
	return val, nil
}

// SetChainConfig assigns the chain config for testing purposes.
func (c *Config) SetChainConfig(chainCfg *ChainConfig) {
	c.chainConfig = chainCfg
}

func (c Config) GetChainConfig() *ChainConfig {
	return c.chainConfig
}

func (c Config) GetChainId() string {
	return c.chainConfig.ChainId
}

// SetDBConfig assigns the DB config for testing purposes.
func (c *Config) SetDBConfig(dbCfg *dbconfig.Config) {
	c.dbConfig = dbCfg
}

func (c Config) GetDBConfig() *dbconfig.Config {
	return c.dbConfig
}

// SetStoreConfig assigns the store config for testing purposes.
func (c *Config) SetStoreConfig(storeCfg *StoreConfig) {
	c.storeConfig = storeCfg
}

func (c Config) GetStoreConfig() *StoreConfig {
	return c.storeConfig
}

func (c Config) GetRabbitMQConfig() *RabbitMQConfig {
	return c.rabbitMQConfig
}

func (c Config) GetMetricsConfig() *MetricsConfig {
	return c.metricsConfig
}

func (c Config) GetSentryConfig() *SentryConfig {
	if c.sentryConfig == nil || c.sentryConfig.DSN == "" {
		return nil
	}
	return c.sentryConfig
}

// SetIntervals assigns the query timeout and polling interval for testing purposes.
func (c *Config) SetIntervals(queryTimeout, pollingInterval time.Duration) {
	c.queryTimeout = queryTimeout
	c.pollingInterval = pollingInterval
}

func (c Config) GetQueryTimeout() time.Duration {
	return c.queryTimeout
}

func (c Config) GetPollingInterval() time.Duration {
	return c.pollingInterval
}

func (c Config) GetLogLevel() slog.Level {
	switch c.logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (c Config) GetLogFormat() string {
	if c.logFormat == "json" {
		return "json"
	}
	return "plain"
}

func (c Config) Validate() error {
	if err := c.validateLogSettings(); err != nil {
		return err
	}
	if err := c.validateNumericSettings(); err != nil {
		return err
	}
	if err := c.validateMetricsConfig(); err != nil {
		return err
	}
	if err := c.validateSubConfigs(); err != nil {
		return err
	}
	return nil
}

// validateLogSettings validates log format and level configuration
func (c Config) validateLogSettings() error {
	switch c.logFormat {
	case "json", "plain":
		break
	default:
		return types.NewValidationError("LOG_FORMAT", fmt.Sprintf("invalid value '%s', must be 'json' or 'plain'", c.logFormat))
	}

	switch c.logLevel {
	case "debug", "info", "warn", "error":
		break
	default:
		return types.NewValidationError("LOG_LEVEL", fmt.Sprintf("invalid value '%s', must be one of: debug, info, warn, error", c.logLevel))
	}
	return nil
}

func (c Config) validateNumericSettings() error {
	if c.pollingInterval <= 0 {
		return types.NewValidationError("POLLING_INTERVAL", "must be positive")
	}
	if c.queryTimeout <= 0 {
		return types.NewValidationError("QUERY_TIMEOUT", "must be positive")
	}
	return nil
}

func (c Config) validateMetricsConfig() error {
	if c.metricsConfig == nil || !c.metricsConfig.Enabled {
		return nil
	}
	if port, err := strconv.Atoi(c.metricsConfig.Port); err != nil || port < MinPortNumber || port > MaxPortNumber {
		return types.NewValidationError("METRICS_PORT", fmt.Sprintf("must be a valid port number (%d-%d)", MinPortNumber, MaxPortNumber))
	}
	if c.metricsConfig.Path == "" || c.metricsConfig.Path[0] != '/' {
		return types.NewValidationError("METRICS_PATH", "must start with '/'")
	}
	return nil
}

// validateSubConfigs validates nested configuration objects. The database is
// only required when it backs the dedup store.
func (c Config) validateSubConfigs() error {
	if err := c.chainConfig.Validate(); err != nil {
		return err
	}
	if err := c.storeConfig.Validate(); err != nil {
		return err
	}
	if c.storeConfig.Backend == StoreBackendPostgres {
		if err := c.dbConfig.Validate(); err != nil {
			return err
		}
	}
	if c.rabbitMQConfig != nil {
		if err := c.rabbitMQConfig.Validate(); err != nil {
			return err
		}
	}
	return nil
}

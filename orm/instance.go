package orm

import (
	"context"
	"database/sql"
	"log/slog"

	sloggorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/geobrowser/geo-stream/orm/config"
	"github.com/geobrowser/geo-stream/orm/plugins"
	"github.com/geobrowser/geo-stream/types"
)

var (
	// DoNothingWhenConflict turns an insert into set-if-absent.
	DoNothingWhenConflict = clause.OnConflict{
		DoNothing: true,
	}
)

type Database struct {
	*gorm.DB
	config *config.Config
}

func OpenDB(config *config.Config, logger *slog.Logger) (*Database, error) {
	gormcfg := &gorm.Config{
		NamingStrategy:  schema.NamingStrategy{SingularTable: true},
		PrepareStmt:     true,
		CreateBatchSize: config.BatchSize,
		Logger:          sloggorm.New(sloggorm.WithHandler(logger.Handler())),
	}

	instance, err := gorm.Open(postgres.Open(config.DSN), gormcfg)
	if err != nil {
		return nil, types.NewDatabaseError("open", err)
	}

	sqlDB, err := instance.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.MaxConns)
	sqlDB.SetMaxIdleConns(config.IdleConns)

	if err := instance.Use(plugins.NewMetricsPlugin()); err != nil {
		return nil, err
	}

	return &Database{DB: instance, config: config}, nil
}

// NewDatabase wraps an already opened gorm handle, e.g. one backed by sqlmock.
func NewDatabase(db *gorm.DB, config *config.Config) *Database {
	return &Database{DB: db, config: config}
}

// Migrate creates the tables in types.Tables. It is a no-op unless
// DB_AUTO_MIGRATE is set.
func (d Database) Migrate(ctx context.Context) error {
	if d.config == nil || !d.config.AutoMigrate {
		return nil
	}
	return d.ForceMigrate(ctx)
}

// ForceMigrate creates the tables regardless of DB_AUTO_MIGRATE.
func (d Database) ForceMigrate(ctx context.Context) error {
	models := make([]any, 0, len(types.Tables))
	for _, table := range types.Tables {
		models = append(models, table.Model)
	}
	if err := d.WithContext(ctx).AutoMigrate(models...); err != nil {
		return types.NewDatabaseError("migrate", err)
	}
	return nil
}

func (d Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDBStats returns database connection pool statistics
func (d Database) GetDBStats() (*sql.DBStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}

	stats := sqlDB.Stats()
	return &stats, nil
}

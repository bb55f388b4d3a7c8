package testutil

import (
	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/geobrowser/geo-stream/orm"
	"github.com/geobrowser/geo-stream/orm/config"
)

// NewMockDB returns a Database whose statements go to sqlmock. The metrics
// plugin is not installed.
func NewMockDB() (*orm.Database, sqlmock.Sqlmock, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	instance, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		NamingStrategy:  schema.NamingStrategy{SingularTable: true},
		CreateBatchSize: 100,
		Logger:          logger.Discard,
	})
	if err != nil {
		return nil, nil, err
	}

	return orm.NewDatabase(instance, &config.Config{BatchSize: 100}), mock, nil
}

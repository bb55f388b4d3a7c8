package store

import (
	"context"

	"github.com/geobrowser/geo-stream/orm"
	"github.com/geobrowser/geo-stream/types"
)

// SQLStore keeps the table in postgres and relies on the primary key with
// ON CONFLICT DO NOTHING for atomicity.
type SQLStore struct {
	db *orm.Database
}

func NewSQLStore(db *orm.Database) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	row := types.SpaceAddress{Key: key, Value: value}
	res := s.db.WithContext(ctx).Clauses(orm.DoNothingWhenConflict).Create(&row)
	if res.Error != nil {
		return false, types.NewDatabaseError("insert space address", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

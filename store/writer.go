package store

import (
	"context"
	"log/slog"

	"github.com/geobrowser/geo-stream/metrics"
	"github.com/geobrowser/geo-stream/types"
)

// WriteResult counts the outcome of one block's writes. Duplicates within the
// block are not counted.
type WriteResult struct {
	Inserted int
	Skipped  int
}

// Writer records the space of every content entry as space -> space.
type Writer struct {
	store   Store
	backend string
	logger  *slog.Logger
}

func NewWriter(store Store, backend string, logger *slog.Logger) *Writer {
	return &Writer{
		store:   store,
		backend: backend,
		logger:  logger.With("module", "store"),
	}
}

// WriteEntries attempts one set-if-absent per distinct space in entries, in
// entry order. The first error aborts the remaining writes; writes already
// made stay, and replaying the block skips them.
func (w *Writer) WriteEntries(ctx context.Context, entries *types.EntriesAdded) (WriteResult, error) {
	var res WriteResult
	if entries == nil {
		return res, nil
	}

	seen := make(map[string]struct{}, len(entries.Entries))
	for _, entry := range entries.Entries {
		if _, ok := seen[entry.Space]; ok {
			continue
		}
		seen[entry.Space] = struct{}{}

		inserted, err := w.store.SetIfAbsent(ctx, entry.Space, entry.Space)
		if err != nil {
			metrics.TrackStoreWrite(w.backend, metrics.WriteError)
			return res, err
		}
		if inserted {
			res.Inserted++
			metrics.TrackStoreWrite(w.backend, metrics.WriteInserted)
			w.logger.Debug("space address recorded", slog.String("space", entry.Space))
		} else {
			res.Skipped++
			metrics.TrackStoreWrite(w.backend, metrics.WriteSkipped)
		}
	}
	return res, nil
}

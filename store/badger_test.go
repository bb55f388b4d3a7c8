package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStoreFirstWriterWins(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	inserted, err := s.SetIfAbsent(ctx, "0xaa", "first")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.SetIfAbsent(ctx, "0xaa", "second")
	require.NoError(t, err)
	assert.False(t, inserted)

	value, ok, err := s.get("0xaa")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", value)

	_, ok, err = s.get("0xbb")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerStoreConcurrentWriters(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		inserted atomic.Int32
		failures atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.SetIfAbsent(ctx, "0xcc", "0xcc")
			if err != nil {
				failures.Add(1)
				return
			}
			if ok {
				inserted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), failures.Load())
	assert.Equal(t, int32(1), inserted.Load())
}

func TestBadgerStoreCanceledContext(t *testing.T) {
	s := openInMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SetIfAbsent(ctx, "0xdd", "0xdd")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	inserted, err := s.SetIfAbsent(ctx, "0xee", "0xee")
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, s.Close())

	s, err = OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	inserted, err = s.SetIfAbsent(ctx, "0xee", "0xee")
	require.NoError(t, err)
	assert.False(t, inserted)
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, struct{}](2)
	c.Set("a", struct{}{})
	c.Set("b", struct{}{})
	_, _ = c.Get("a")
	c.Set("c", struct{}{})

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
	assert.Equal(t, 2, c.Len())
}

func TestNewPanicsOnInvalidSize(t *testing.T) {
	assert.Panics(t, func() { New[string, int](0) })
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTL[string, uint64](10, 20*time.Millisecond)
	c.Set("head", 42)

	v, ok := c.Get("head")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), v)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("head")
		return !ok
	}, time.Second, 5*time.Millisecond)

	c.Set("head", 43)
	c.Remove("head")
	_, ok = c.Get("head")
	assert.False(t, ok)
}

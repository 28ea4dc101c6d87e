package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchCacheExpiresEntries(t *testing.T) {
	c := NewSearchCache[[]string](2, 20*time.Millisecond)
	c.Set("star", []string{"Star Wars"})

	got, ok := c.Get("star")
	assert.True(t, ok)
	assert.Equal(t, []string{"Star Wars"}, got)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("star")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestSearchCacheEvictsLeastRecent(t *testing.T) {
	c := NewSearchCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheFlush(t *testing.T) {
	c := NewTTLCache(time.Minute)
	c.Set("agg", 42)

	v, ok := c.Get("agg")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	c.Flush()
	assert.Equal(t, 0, c.Len())
}

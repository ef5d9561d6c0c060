package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	t.Parallel()

	c := New(true)
	defer c.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	etag := c.Set("k", []byte(`[1]`), time.Minute)
	data, got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[1]`), data)
	assert.Equal(t, etag, got)

	now = now.Add(2 * time.Minute)
	_, _, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats()["expired_keys"])

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCacheDisabled(t *testing.T) {
	t.Parallel()

	c := New(false)
	etag := c.Set("k", []byte("x"), time.Minute)
	assert.Equal(t, ComputeETag([]byte("x")), etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheFlush(t *testing.T) {
	t.Parallel()

	c := New(true)
	defer c.Close()
	c.Set("a", []byte("1"), time.Hour)
	c.Set("b", []byte("2"), time.Hour)
	c.Flush()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCheckETagMatch(t *testing.T) {
	t.Parallel()

	etag := ComputeETag([]byte("payload"))
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{etag, true},
		{`W/"other", ` + etag, true},
		{`W/"other"`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckETagMatch(tt.header, etag), tt.header)
	}
}

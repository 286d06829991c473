package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSHASearch_MissThenHit(t *testing.T) {
	c := openTestCache(t)

	_, _, found, err := c.SHASearch("octo", "repo", "abc123")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.StoreSHASearch("octo", "repo", "abc123", 42, true))

	number, isPR, found, err := c.SHASearch("octo", "repo", "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, number)
	assert.True(t, isPR)
}

func TestSHASearch_CachesNegativeResult(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.StoreSHASearch("octo", "repo", "def456", 0, false))

	number, isPR, found, err := c.SHASearch("octo", "repo", "def456")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Zero(t, number)
	assert.False(t, isPR)
}

func TestPRBody_RoundTrip(t *testing.T) {
	c := openTestCache(t)

	body := "Updates `lib` from 1.0.0 to 1.1.0"
	require.NoError(t, c.StorePRBody("octo", "repo", 7, body))

	got, found, err := c.PRBody("octo", "repo", 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, body, got)
}

func TestExpiredEntriesAreMisses(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.StoreSHASearch("octo", "repo", "abc123", 42, true))
	require.NoError(t, c.StorePRBody("octo", "repo", 42, "body"))

	c.setTTL(-time.Second)

	_, _, found, err := c.SHASearch("octo", "repo", "abc123")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.PRBody("octo", "repo", 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClear(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.StoreSHASearch("octo", "repo", "abc123", 42, true))
	require.NoError(t, c.StorePRBody("octo", "repo", 42, "body"))

	require.NoError(t, c.Clear())

	_, _, found, err := c.SHASearch("octo", "repo", "abc123")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.PRBody("octo", "repo", 42)
	require.NoError(t, err)
	assert.False(t, found)
}

package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTomorrow(t *testing.T) {
	loc := time.FixedZone("UTC+11", 11*60*60)
	now := time.Date(2026, 8, 26, 23, 30, 0, 0, loc) // already the 26th 12:30 UTC

	got := Tomorrow(now)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDeadline(t *testing.T) {
	now := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

	t.Run("strict date", func(t *testing.T) {
		got, err := ParseDeadline("2026-09-01", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("natural language", func(t *testing.T) {
		got, err := ParseDeadline("tomorrow", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("empty means no deadline", func(t *testing.T) {
		got, err := ParseDeadline("  ", now)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDeadline("not a date at all xyzzy", now)
		assert.Error(t, err)
	})
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitTags(" a, b c ,,d "))
	assert.Nil(t, SplitTags(""))
}

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record(Entry{
		RequestID:  "req-1",
		Method:     "GET",
		URL:        "https://example.com/a",
		StatusCode: 200,
		DurationMs: 12,
		CreatedAt:  time.Now().Add(-time.Minute),
	}))
	require.NoError(t, s.Record(Entry{
		Method:     "POST",
		URL:        "https://example.com/b",
		StatusCode: 0,
		DurationMs: 3000,
		Error:      "request timed out after 3000ms",
	}))

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "https://example.com/b", entries[0].URL)
	assert.Equal(t, "request timed out after 3000ms", entries[0].Error)
	assert.Equal(t, "https://example.com/a", entries[1].URL)
	assert.Equal(t, "req-1", entries[1].RequestID)
	assert.Equal(t, 200, entries[1].StatusCode)
}

func TestStore_ListLimit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(Entry{Method: "GET", URL: "https://example.com", StatusCode: 200}))
	}

	entries, err := s.List(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_ListEmpty(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

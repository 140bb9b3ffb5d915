package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/journal"
)

func openTemp(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 21, 9, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordDelivery(ctx, engine.Delivery{
		ContactID:  "1",
		Name:       "Ada",
		Occurrence: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		Message:    "hb",
		At:         now,
		Err:        errors.New("503 from endpoint"),
	}))
	require.NoError(t, j.RecordDelivery(ctx, engine.Delivery{
		ContactID:  "2",
		Name:       "Bob",
		Occurrence: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		Message:    "hb bob",
		At:         now.Add(time.Minute),
	}))

	records, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2", records[0].ContactID, "newest first")
	assert.Equal(t, journal.StatusSent, records[0].Status)
	assert.Empty(t, records[0].Error)
	assert.Equal(t, now.Add(time.Minute), records[0].At)

	assert.Equal(t, journal.StatusFailed, records[1].Status)
	assert.Equal(t, "503 from endpoint", records[1].Error)
	assert.Equal(t, time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC), records[1].Occurrence)
	assert.NotEqual(t, records[0].ID, records[1].ID)

	limited, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecentValidation(t *testing.T) {
	j := openTemp(t)

	_, err := j.Recent(context.Background(), 0)
	assert.Error(t, err)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := journal.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordDelivery(ctx, engine.Delivery{ContactID: "1", At: time.Now()}))
	require.NoError(t, j.Close())

	j, err = journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	records, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := journal.Open("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrJournalPath)
}

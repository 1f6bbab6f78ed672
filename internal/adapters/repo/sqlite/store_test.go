package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "schedule.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func sampleSession(id domain.SessionID, seq int64) domain.ClassSession {
	return domain.ClassSession{
		ID:      id,
		Subject: "Math",
		Teacher: "Mr. Smith",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:30"),
		Color:   "blue",
		Seq:     seq,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	require.Error(t, err)
	assert.ErrorContains(t, err, "storage path is required")
}

func TestStoreRoundTripKeepsSeqOrder(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	later := sampleSession("s-2", 2)
	later.Day = domain.Friday
	later.Color = ""
	require.NoError(t, store.Save(ctx, later))
	require.NoError(t, store.Save(ctx, sampleSession("s-1", 1)))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ClassSession{sampleSession("s-1", 1), later}, sessions)
}

func TestStoreListRejectsOutOfRangeMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		startMin int
		endMin   int
	}{
		{name: "negative start", startMin: -1, endMin: 60},
		{name: "end past midnight", startMin: 60, endMin: 24 * 60},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := openTestStore(t)
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, sampleSession("s-1", 1)))
			_, err := store.sqlDB.ExecContext(ctx,
				`UPDATE class_sessions SET start_min = ?, end_min = ? WHERE id = ?`,
				tc.startMin, tc.endMin, "s-1")
			require.NoError(t, err)

			_, err = store.List(ctx)
			require.Error(t, err)
			assert.ErrorContains(t, err, "scan class session s-1")
		})
	}
}

func TestStoreSaveUpserts(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	original := sampleSession("s-1", 1)
	require.NoError(t, store.Save(ctx, original))

	replaced := original
	replaced.Room = "R9"
	replaced.End = domain.MustParseTimeOfDay("11:00")
	require.NoError(t, store.Save(ctx, replaced))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ClassSession{replaced}, sessions)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleSession("s-1", 1)))

	require.NoError(t, store.Delete(ctx, "s-1"))
	require.NoError(t, store.Delete(ctx, "s-1"))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStoreReopenKeepsSessions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schedule.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), sampleSession("s-1", 1)))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = second.Close()
	})

	sessions, err := second.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionID("s-1"), sessions[0].ID)
}

func TestStoreRejectsEmptyID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	err := store.Save(context.Background(), sampleSession("", 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "session id is required")
}

func TestStoreCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, sampleSession("s-1", 1))
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = store.List(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	err = store.Delete(ctx, "s-1")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNilStoreReportsUnconfigured(t *testing.T) {
	t.Parallel()

	var store *Store

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "storage is not configured")
	assert.NoError(t, store.Close())
}

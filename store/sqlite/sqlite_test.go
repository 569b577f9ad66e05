package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recovery-ledger/emissions"
	"github.com/warp/recovery-ledger/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func entry(t *testing.T, day int, r emissions.Refrigerant, weight string) emissions.Entry {
	t.Helper()
	e, err := emissions.ComputeEntry(emissions.DefaultReferenceTable(),
		emissions.NewDate(2025, time.June, day), r, decimal.RequireFromString(weight))
	require.NoError(t, err)
	return e
}

func TestStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestStore_RoundTripPreservesOrder(t *testing.T) {
	// GIVEN: Entries appended out of date order
	// WHEN: Loading
	// THEN: Insertion order wins, not date order

	store := newTestStore(t)
	ctx := context.Background()

	want := []emissions.Entry{
		entry(t, 20, "R-404A", "1.5"),
		entry(t, 1, "R-134a", "10"),
		entry(t, 15, "R-290", "0.333"),
		entry(t, 1, "R-134a", "0"),
	}
	for _, e := range want {
		require.NoError(t, store.Append(ctx, e))
	}

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "entry %d", i)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery.db")
	ctx := context.Background()

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, entry(t, 3, "R-22", "5")))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CO2eKg.Equal(decimal.NewFromInt(9050)))
}

func TestStore_RejectsNonPositiveGWP(t *testing.T) {
	store := newTestStore(t)
	bad := entry(t, 1, "R-22", "1")
	bad.GWP = 0

	err := store.Append(context.Background(), bad)
	assert.ErrorIs(t, err, emissions.ErrPersistence)
}

func TestStore_ClosedDatabaseIsPersistenceError(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, emissions.ErrPersistence)

	err = store.Append(context.Background(), entry(t, 1, "R-22", "1"))
	assert.ErrorIs(t, err, emissions.ErrPersistence)
}

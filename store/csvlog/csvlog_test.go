package csvlog_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recovery-ledger/emissions"
	"github.com/warp/recovery-ledger/store/csvlog"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const headerLine = "Date,Refrigerant,Weight (kg),GWP,CO2e (kg)\n"

func newTestStore(t *testing.T) (*csvlog.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "data.csv")
	s, err := csvlog.New(path)
	require.NoError(t, err)
	return s, path
}

func entry(t *testing.T, day int, r emissions.Refrigerant, weight string) emissions.Entry {
	t.Helper()
	e, err := emissions.ComputeEntry(emissions.DefaultReferenceTable(),
		emissions.NewDate(2024, time.May, day), r, decimal.RequireFromString(weight))
	require.NoError(t, err)
	return e
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func TestNew_CreatesHeaderOnlyFile(t *testing.T) {
	// GIVEN: No data file exists
	// WHEN: The store is opened
	// THEN: The file is created with only the header row

	_, path := newTestStore(t)
	assert.Equal(t, headerLine, readFile(t, path))
}

func TestNew_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	existing := headerLine + "2024-01-01,R-134a,10.0,1430,14300.0\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	s, err := csvlog.New(path)
	require.NoError(t, err)
	assert.Equal(t, existing, readFile(t, path))

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1430), entries[0].GWP)
	assert.True(t, entries[0].CO2eKg.Equal(decimal.NewFromInt(14300)))
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := csvlog.New("")
	assert.Error(t, err)
}

func TestLoad_RecreatesDeletedFile(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.Remove(path))

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, headerLine, readFile(t, path))
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestAppendLoad_RoundTrip(t *testing.T) {
	// GIVEN: N entries appended in order
	// WHEN: Loading through a fresh store on the same file
	// THEN: Exactly N entries come back in the same order with identical fields

	s, path := newTestStore(t)
	ctx := context.Background()

	want := []emissions.Entry{
		entry(t, 1, "R-134a", "10.0"),
		entry(t, 2, "R-22", "5"),
		entry(t, 2, "R-22", "3"),
		entry(t, 3, "R-1234yf", "0"),
		entry(t, 4, "R-410A", "1.125"),
		entry(t, 5, "R-404A", "0.001"),
	}
	for _, e := range want {
		require.NoError(t, s.Append(ctx, e))
	}

	reopened, err := csvlog.New(path)
	require.NoError(t, err)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "entry %d: want %+v got %+v", i, want[i], got[i])
	}
}

func TestAppend_WritesExpectedRow(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), entry(t, 1, "R-134a", "10.5")))

	assert.Equal(t, headerLine+"2024-05-01,R-134a,10.5,1430,15015\n", readFile(t, path))
}

func TestAppend_DoesNotRewriteExistingRows(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, entry(t, 1, "R-290", "2")))
	before := readFile(t, path)
	require.NoError(t, s.Append(ctx, entry(t, 2, "R-290", "4")))
	after := readFile(t, path)

	assert.True(t, strings.HasPrefix(after, before))
}

func TestAppend_RepairsMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSuffix(headerLine, "\n")), 0o644))

	s, err := csvlog.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), entry(t, 1, "R-22", "1")))

	entries, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_EmptyFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := csvlog.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), entry(t, 1, "R-22", "1")))

	assert.True(t, strings.HasPrefix(readFile(t, path), headerLine))
}

// =============================================================================
// DECODE
// =============================================================================

func TestDecode_AcceptsFloatFormattedGWP(t *testing.T) {
	in := headerLine + "2024-01-01,R-22,5.0,1810.0,9050.0\n"
	entries, err := csvlog.Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1810), entries[0].GWP)
}

func TestDecode_AcceptsByteOrderMark(t *testing.T) {
	in := "\ufeff" + headerLine + "2024-01-01,R-290,1,3,3\n"
	entries, err := csvlog.Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"wrong header", "date,refrigerant,weight,gwp,co2e\n"},
		{"bad date", headerLine + "01/01/2024,R-22,1,1810,1810\n"},
		{"bad weight", headerLine + "2024-01-01,R-22,abc,1810,1810\n"},
		{"fractional gwp", headerLine + "2024-01-01,R-22,1,1810.5,1810\n"},
		{"bad co2e", headerLine + "2024-01-01,R-22,1,1810,x\n"},
		{"short row", headerLine + "2024-01-01,R-22,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvlog.Decode(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestDecode_ErrorNamesLine(t *testing.T) {
	in := headerLine + "2024-01-01,R-22,1,1810,1810\n2024-01-02,R-22,oops,1810,1810\n"
	_, err := csvlog.Decode(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoad_CorruptFileIsPersistenceError(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o644))

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, emissions.ErrPersistence)
}

func TestEncodeDecode(t *testing.T) {
	entries := []emissions.Entry{entry(t, 1, "R-404A", "2.5"), entry(t, 9, "R-134a", "1")}

	var buf bytes.Buffer
	require.NoError(t, csvlog.Encode(&buf, entries))
	got, err := csvlog.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, entries[0].Equal(got[0]))
	assert.True(t, entries[1].Equal(got[1]))
}

// =============================================================================
// FAILURES
// =============================================================================

func TestAppend_UnwritableFileIsPersistenceError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	s, path := newTestStore(t)
	require.NoError(t, os.Chmod(path, 0o444))
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	err := s.Append(context.Background(), entry(t, 1, "R-22", "1"))
	assert.ErrorIs(t, err, emissions.ErrPersistence)
	assert.Equal(t, headerLine, readFile(t, path))
}

func TestAppend_PartialWriteIsRolledBack(t *testing.T) {
	// GIVEN: A log with one row and a write that fails halfway through
	// WHEN: Appending a second row
	// THEN: Persistence error; the file is byte-identical to before and
	//       still loads, and the next append succeeds

	s, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, entry(t, 1, "R-22", "1")))
	before := readFile(t, path)

	csvlog.SetWrite(s, func(f *os.File, b []byte) (int, error) {
		n, _ := f.Write(b[:len(b)/2])
		return n, errors.New("device full")
	})
	err := s.Append(ctx, entry(t, 2, "R-410A", "2"))
	assert.ErrorIs(t, err, emissions.ErrPersistence)
	assert.Equal(t, before, readFile(t, path))

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	csvlog.SetWrite(s, nil)
	require.NoError(t, s.Append(ctx, entry(t, 3, "R-290", "1")))
	entries, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

/*
Package csvlog provides a CSV-file implementation of emissions.Store.

PURPOSE:
  Persists the entry log as a flat CSV file, one row per entry, in the
  layout spreadsheet tools read directly:

    Date,Refrigerant,Weight (kg),GWP,CO2e (kg)
    2024-01-01,R-134a,10,1430,14300

INITIALIZATION:
  If the file does not exist it is created containing only the header
  row (on New, and again on Load if it was removed in between).

APPEND-ONLY ENFORCEMENT:
  Rows are only ever appended. Each Append encodes one full row in memory
  and issues a single write on an O_APPEND handle followed by fsync. A
  failed write or sync truncates the file back to its prior size, so an
  entry is either completely on disk or not at all. Existing bytes are
  never rewritten.

CONCURRENCY:
  A mutex serializes appends within one process. Multiple processes
  appending to the same file are not coordinated.

SEE ALSO:
  - emissions/store.go: Interface definition
  - store/sqlite: SQLite alternative
*/
package csvlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/recovery-ledger/emissions"
)

// Header is the required first row of the log.
var Header = []string{"Date", "Refrigerant", "Weight (kg)", "GWP", "CO2e (kg)"}

// Store implements emissions.Store on a CSV file.
type Store struct {
	path string
	mu   sync.Mutex

	// write issues the append; nil means (*os.File).Write.
	write func(f *os.File, b []byte) (int, error)
}

// New opens (or initializes) the CSV log at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("csvlog: empty path")
	}
	s := &Store{path: path}
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close is a no-op; files are opened per operation.
func (s *Store) Close() error { return nil }

// ensure writes the header row if the file is missing or empty.
func (s *Store) ensure() error {
	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return emissions.NewPersistenceError("init", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return emissions.NewPersistenceError("init", err)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return emissions.NewPersistenceError("init", err)
	}
	w.Flush()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return emissions.NewPersistenceError("init", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return emissions.NewPersistenceError("init", err)
	}
	if err := f.Close(); err != nil {
		return emissions.NewPersistenceError("init", err)
	}
	return nil
}

// Append writes one row at the end of the file.
func (s *Store) Append(_ context.Context, e emissions.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}

	var buf bytes.Buffer
	needsNewline, err := s.missingTrailingNewline()
	if err != nil {
		return emissions.NewPersistenceError("append", err)
	}
	if needsNewline {
		buf.WriteByte('\n')
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(encodeRow(e)); err != nil {
		return emissions.NewPersistenceError("append", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return emissions.NewPersistenceError("append", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return emissions.NewPersistenceError("append", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return emissions.NewPersistenceError("append", err)
	}
	size := info.Size()

	write := s.write
	if write == nil {
		write = (*os.File).Write
	}
	if _, err := write(f, buf.Bytes()); err != nil {
		return emissions.NewPersistenceError("append", rollback(f, size, err))
	}
	if err := f.Sync(); err != nil {
		return emissions.NewPersistenceError("append", rollback(f, size, err))
	}
	if err := f.Close(); err != nil {
		return emissions.NewPersistenceError("append", err)
	}
	return nil
}

// rollback cuts f back to size after a failed append and closes it.
func rollback(f *os.File, size int64, cause error) error {
	if err := f.Truncate(size); err != nil {
		cause = errors.Join(cause, fmt.Errorf("truncate: %w", err))
	}
	f.Close()
	return cause
}

// missingTrailingNewline reports whether the file's last byte is not '\n'
// (files edited by hand often lack one).
func (s *Store) missingTrailingNewline() (bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// Load reads every row in file order.
func (s *Store) Load(_ context.Context) ([]emissions.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, emissions.NewPersistenceError("load", err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, emissions.NewPersistenceError("load", fmt.Errorf("%s: %w", s.path, err))
	}
	return entries, nil
}

// Decode parses a CSV log. The header row is required; an empty input is
// treated as a log with no entries.
func Decode(r io.Reader) ([]emissions.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []emissions.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	entries := []emissions.Entry{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		e, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Encode writes a full log (header plus rows) to w.
func Encode(w io.Writer, entries []emissions.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(encodeRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func checkHeader(got []string) error {
	for i, want := range Header {
		if strings.TrimSpace(strings.TrimPrefix(got[i], "\ufeff")) != want {
			return fmt.Errorf("unexpected header %q, want %q", strings.Join(got, ","), strings.Join(Header, ","))
		}
	}
	return nil
}

func encodeRow(e emissions.Entry) []string {
	return []string{
		e.Date.String(),
		string(e.Refrigerant),
		e.WeightKg.String(),
		strconv.FormatInt(e.GWP, 10),
		e.CO2eKg.String(),
	}
}

func decodeRow(rec []string) (emissions.Entry, error) {
	date, err := emissions.ParseDate(strings.TrimSpace(rec[0]))
	if err != nil {
		return emissions.Entry{}, err
	}
	weight, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
	if err != nil {
		return emissions.Entry{}, fmt.Errorf("weight %q: %w", rec[2], err)
	}
	gwp, err := parseGWP(strings.TrimSpace(rec[3]))
	if err != nil {
		return emissions.Entry{}, err
	}
	co2e, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
	if err != nil {
		return emissions.Entry{}, fmt.Errorf("co2e %q: %w", rec[4], err)
	}
	return emissions.Entry{
		Date:        date,
		Refrigerant: emissions.Refrigerant(strings.TrimSpace(rec[1])),
		WeightKg:    weight,
		GWP:         gwp,
		CO2eKg:      co2e,
	}, nil
}

// parseGWP accepts "1430" and the float-formatted "1430.0" that dataframe
// exports produce.
func parseGWP(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("gwp %q: not an integer", s)
	}
	return d.IntPart(), nil
}

var _ emissions.Store = (*Store)(nil)

/*
Package emissions provides the refrigerant recovery accounting model.

PURPOSE:
  Turns recovery events (date, refrigerant, recovered weight) into
  CO2-equivalent avoided emissions and aggregates them into dashboard
  totals. This is the only package with domain semantics; persistence and
  presentation consume the types defined here.

KEY CONCEPTS IN THIS FILE (types.go):
  - Refrigerant: Identifier of a refrigerant gas (e.g., "R-134a")
  - Date: Civil calendar date of a recovery event
  - Entry: Immutable record of one recovery event

DESIGN PRINCIPLES:
  1. Immutability: Entries are created once and never modified
  2. Precision: Uses decimal.Decimal so weight*GWP and CO2e/1000 are exact
  3. Frozen history: GWP and CO2e are copied onto each Entry at creation,
     so a later change to the reference table never rewrites history

USAGE:
  table := emissions.DefaultReferenceTable()
  entry, err := emissions.ComputeEntry(table, emissions.NewDate(2024, 1, 1),
      "R-134a", decimal.NewFromInt(10))
  // entry.GWP == 1430, entry.CO2eKg == 14300

SEE ALSO:
  - reference.go: GWP reference table
  - compute.go: ComputeEntry
  - aggregate.go: Aggregate and AggregateView
  - ledger.go: Ledger service over a Store
*/
package emissions

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REFRIGERANT
// =============================================================================

// Refrigerant identifies a refrigerant gas by its ASHRAE designation.
type Refrigerant string

func (r Refrigerant) String() string { return string(r) }

// =============================================================================
// DATE - Civil calendar date, no timezone semantics
// =============================================================================

// DateLayout is the ISO-8601 calendar date layout used everywhere a Date is
// serialized.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value is not a valid recovery date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in the local time zone.
func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time    { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) String() string     { return d.Time().Format(DateLayout) }
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// ENTRY - One recovery event
// =============================================================================

// Entry is one recorded recovery event. Entries are immutable: GWP and CO2eKg
// are stored as computed at submission time and never recomputed.
type Entry struct {
	Date        Date
	Refrigerant Refrigerant
	WeightKg    decimal.Decimal
	GWP         int64
	CO2eKg      decimal.Decimal
}

// Equal reports whether two entries carry identical field values.
func (e Entry) Equal(o Entry) bool {
	return e.Date == o.Date &&
		e.Refrigerant == o.Refrigerant &&
		e.WeightKg.Equal(o.WeightKg) &&
		e.GWP == o.GWP &&
		e.CO2eKg.Equal(o.CO2eKg)
}

// SavedMessage is the confirmation shown after a successful Data Entry.
func (e Entry) SavedMessage() string {
	return fmt.Sprintf("Entry saved! CO2e = %s kg", e.CO2eKg.StringFixed(2))
}

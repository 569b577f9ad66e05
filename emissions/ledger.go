/*
ledger.go - Recovery ledger service

PURPOSE:
  The Ledger is the explicit service object the presentation layers talk
  to. It owns a Store and a ReferenceTable, both passed in at construction;
  there is no package-level state.

FLOWS:
  Data Entry: Record() -> ComputeEntry() -> Store.Append()
  Dashboard:  Dashboard() -> Store.Load() -> Aggregate()

RELOAD POLICY:
  Every read goes to the Store. Nothing is cached between calls, so a
  dashboard always reflects what has been appended so far, including
  writes made by another process sharing the same store.

FAILURES:
  Validation errors are returned before the Store is touched, so a
  rejected entry never produces a partial write. Store failures come back
  wrapped with ErrPersistence; the entry is not retried.
*/
package emissions

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Observer receives ledger events. metrics.Recorder implements it.
type Observer interface {
	EntryRecorded(e Entry)
	EntryRejected(reason string)
	StoreFailed(op string)
}

type nopObserver struct{}

func (nopObserver) EntryRecorded(Entry)  {}
func (nopObserver) EntryRejected(string) {}
func (nopObserver) StoreFailed(string)   {}

// Ledger records entries and builds dashboard views.
type Ledger struct {
	store    Store
	table    *ReferenceTable
	log      zerolog.Logger
	observer Observer
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithLogger sets the ledger's logger. The default discards output.
func WithLogger(l zerolog.Logger) LedgerOption {
	return func(ld *Ledger) { ld.log = l }
}

// WithObserver attaches an event observer.
func WithObserver(o Observer) LedgerOption {
	return func(ld *Ledger) {
		if o != nil {
			ld.observer = o
		}
	}
}

// NewLedger creates a ledger over store. A nil table selects the default
// reference table.
func NewLedger(store Store, table *ReferenceTable, opts ...LedgerOption) *Ledger {
	if table == nil {
		table = DefaultReferenceTable()
	}
	l := &Ledger{
		store:    store,
		table:    table,
		log:      zerolog.Nop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Table returns the ledger's reference table.
func (l *Ledger) Table() *ReferenceTable { return l.table }

// Record validates, computes and appends one entry.
func (l *Ledger) Record(ctx context.Context, date Date, refrigerant Refrigerant, weightKg decimal.Decimal) (Entry, error) {
	entry, err := ComputeEntry(l.table, date, refrigerant, weightKg)
	if err != nil {
		l.observer.EntryRejected(RejectReason(err))
		l.log.Warn().Err(err).
			Str("refrigerant", string(refrigerant)).
			Str("weight_kg", weightKg.String()).
			Msg("entry rejected")
		return Entry{}, err
	}

	if err := l.store.Append(ctx, entry); err != nil {
		l.observer.StoreFailed("append")
		l.observer.EntryRejected(RejectReason(ErrPersistence))
		l.log.Error().Err(err).Str("refrigerant", string(refrigerant)).Msg("failed to save entry")
		return Entry{}, NewPersistenceError("append", err)
	}

	l.observer.EntryRecorded(entry)
	l.log.Info().
		Str("date", entry.Date.String()).
		Str("refrigerant", string(entry.Refrigerant)).
		Str("weight_kg", entry.WeightKg.String()).
		Int64("gwp", entry.GWP).
		Str("co2e_kg", entry.CO2eKg.String()).
		Msg("entry recorded")
	return entry, nil
}

// Entries returns the raw log in insertion order.
func (l *Ledger) Entries(ctx context.Context) ([]Entry, error) {
	entries, err := l.store.Load(ctx)
	if err != nil {
		l.observer.StoreFailed("load")
		l.log.Error().Err(err).Msg("failed to load entries")
		return nil, NewPersistenceError("load", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Dashboard loads the log and aggregates it. The raw entries are returned
// alongside the view for table rendering.
func (l *Ledger) Dashboard(ctx context.Context) (AggregateView, []Entry, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return AggregateView{}, nil, err
	}
	view := Aggregate(entries)
	l.log.Debug().
		Int("entries", view.EntryCount).
		Str("total_co2e_kg", view.TotalCO2eKg.String()).
		Msg("dashboard aggregated")
	return view, entries, nil
}

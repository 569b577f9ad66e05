/*
store.go - Persistence interface for the entry log

PURPOSE:
  Defines the boundary between the accounting model and storage. The log
  is insertion-ordered and keyed by nothing: entries are appended at the
  end and read back in the same order.

APPEND-ONLY CONTRACT:
  - Append(): single entry write, all-or-nothing
  - Load(): full log in insertion order
  - NO Update() or Delete() methods exist

IMPLEMENTATIONS:
  - emissions/store/memory.go: In-memory for tests and ephemeral runs
  - store/csvlog: CSV file (default backend)
  - store/sqlite: SQLite table

SEE ALSO:
  - ledger.go: Service built on Store
*/
package emissions

import "context"

// Store persists the entry log.
// IMPORTANT: Store is APPEND-ONLY. Existing entries are never reordered or
// mutated. Implementations wrap I/O failures with NewPersistenceError.
type Store interface {
	// Load returns every stored entry in insertion order. A store with no
	// prior data returns an empty slice.
	Load(ctx context.Context) ([]Entry, error)

	// Append durably adds one entry to the end of the log.
	Append(ctx context.Context, entry Entry) error
}

// Package store provides in-process Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/recovery-ledger/emissions"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries []emissions.Entry

	// failAppend/failLoad inject errors for tests.
	failAppend error
	failLoad   error
}

func NewMemory(seed ...emissions.Entry) *Memory {
	m := &Memory{}
	m.entries = append(m.entries, seed...)
	return m
}

// Append adds a single entry at the end. Append-only.
func (m *Memory) Append(_ context.Context, e emissions.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend != nil {
		return emissions.NewPersistenceError("append", m.failAppend)
	}
	m.entries = append(m.entries, e)
	return nil
}

// Load returns a copy of the log so callers cannot mutate stored entries.
func (m *Memory) Load(_ context.Context) ([]emissions.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failLoad != nil {
		return nil, emissions.NewPersistenceError("load", m.failLoad)
	}
	result := make([]emissions.Entry, len(m.entries))
	copy(result, m.entries)
	return result, nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// FailAppends makes every later Append fail with err. Pass nil to clear.
func (m *Memory) FailAppends(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAppend = err
}

// FailLoads makes every later Load fail with err. Pass nil to clear.
func (m *Memory) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = err
}

var _ emissions.Store = (*Memory)(nil)

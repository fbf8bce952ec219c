// Package undo keeps a bounded stack of whole-state snapshots.
package undo

import (
	"errors"
	"sync"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 10

// ErrEmpty is returned by Pop when there is nothing to undo.
var ErrEmpty = errors.New("nothing to undo")

// Entry is a stored snapshot and the reason it was taken.
type Entry struct {
	State  ledger.State `json:"state"`
	Reason string       `json:"reason"`
}

// Manager is a last-N stack of deep-copied states. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewManager returns a manager keeping at most capacity snapshots.
// A non-positive capacity uses DefaultCapacity.
func NewManager(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity}
}

// Push stores a deep copy of s. The oldest snapshot is dropped when full.
func (m *Manager) Push(s ledger.State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{State: s.Clone(), Reason: reason})
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
}

// Pop removes and returns the most recent snapshot.
func (m *Manager) Pop() (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return Entry{}, ErrEmpty
	}
	last := m.entries[len(m.entries)-1]
	m.entries = m.entries[:len(m.entries)-1]
	return last, nil
}

// Len returns the number of stored snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Capacity returns the maximum number of snapshots kept.
func (m *Manager) Capacity() int {
	return m.capacity
}

// Entries returns the stored snapshots, oldest first.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{State: e.State.Clone(), Reason: e.Reason}
	}
	return out
}

// Restore replaces the stack with entries, keeping the newest that fit.
func (m *Manager) Restore(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if over := len(entries) - m.capacity; over > 0 {
		entries = entries[over:]
	}
	m.entries = make([]Entry, len(entries))
	for i, e := range entries {
		m.entries[i] = Entry{State: e.State.Clone(), Reason: e.Reason}
	}
}

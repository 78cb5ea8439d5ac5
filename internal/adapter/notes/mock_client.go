package notes

import (
	"context"
	"sync"
)

// MockSyncer records entries in memory instead of touching a vault.
type MockSyncer struct {
	mu       sync.Mutex
	mornings []MorningEntry
	evenings []EveningEntry
	err      error
}

// NewMockSyncer creates a new mock syncer.
func NewMockSyncer() *MockSyncer {
	return &MockSyncer{}
}

// FailWith makes every sync return err; nil restores success.
func (m *MockSyncer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SyncMorning records the entry.
func (m *MockSyncer) SyncMorning(ctx context.Context, entry MorningEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.mornings = append(m.mornings, entry)
	return nil
}

// SyncEvening records the entry.
func (m *MockSyncer) SyncEvening(ctx context.Context, entry EveningEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.evenings = append(m.evenings, entry)
	return nil
}

// Mornings returns the recorded morning entries.
func (m *MockSyncer) Mornings() []MorningEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MorningEntry(nil), m.mornings...)
}

// Evenings returns the recorded evening entries.
func (m *MockSyncer) Evenings() []EveningEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EveningEntry(nil), m.evenings...)
}

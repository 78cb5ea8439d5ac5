// Package notes keeps an Obsidian vault in step with the daily calls.
package notes

import (
	"context"
	"time"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Syncer records call outcomes in the notes vault.
type Syncer interface {
	// SyncMorning writes the day's accountability entry from the morning goals.
	SyncMorning(ctx context.Context, entry MorningEntry) error

	// SyncEvening adds the evening review to the day's entry.
	SyncEvening(ctx context.Context, entry EveningEntry) error
}

// MorningEntry is the morning call as recorded in the vault.
type MorningEntry struct {
	CallID     string
	CallStatus domain.CallStatus
	CallTime   time.Time
	Goals      []string
}

// EveningEntry is the evening review of the morning goals.
type EveningEntry struct {
	CallID   string
	CallTime time.Time
	Goals    []string
	// Completed is parallel to Goals.
	Completed   []bool
	Reflections string
}

// CompletionRate returns the whole-number percentage of goals completed.
func (e EveningEntry) CompletionRate() int {
	if len(e.Goals) == 0 {
		return 0
	}
	done := 0
	for i := range e.Goals {
		if e.done(i) {
			done++
		}
	}
	return done * 100 / len(e.Goals)
}

func (e EveningEntry) done(i int) bool {
	return i < len(e.Completed) && e.Completed[i]
}

// Ensure implementations satisfy Syncer.
var (
	_ Syncer = (*GitSyncer)(nil)
	_ Syncer = (*MockSyncer)(nil)
)

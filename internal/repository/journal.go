// Package repository records flow runs for operators.
//
// The journal is write-mostly audit data. Call continuity never reads it: the
// voice platform's call history remains the only source of truth.
package repository

import (
	"context"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Journal defines the run journal interface.
type Journal interface {
	// StartRun records a run entering its first stage.
	StartRun(ctx context.Context, run *domain.FlowOutcome) error
	// FinishRun records the terminal state of a run.
	FinishRun(ctx context.Context, run *domain.FlowOutcome) error
	// ListRuns returns the most recent runs, newest first. An empty flow lists every flow.
	ListRuns(ctx context.Context, flow domain.Flow, limit int) ([]domain.FlowOutcome, error)
	Close() error
}

// NopJournal discards everything. It is used when no journal DSN is configured.
type NopJournal struct{}

func (NopJournal) StartRun(ctx context.Context, run *domain.FlowOutcome) error  { return nil }
func (NopJournal) FinishRun(ctx context.Context, run *domain.FlowOutcome) error { return nil }
func (NopJournal) ListRuns(ctx context.Context, flow domain.Flow, limit int) ([]domain.FlowOutcome, error) {
	return nil, nil
}
func (NopJournal) Close() error { return nil }

var (
	_ Journal = NopJournal{}
	_ Journal = (*SQLiteJournal)(nil)
)

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/notes"
	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/goals"
)

// syncMorningNotes records the latest morning goals in the notes vault.
// Failures are logged and never affect the run.
func (r *run) syncMorningNotes(ctx context.Context) {
	s := r.svc
	if s.notes == nil {
		return
	}
	logger := r.logger.With(zap.String("step", "notes"))

	resolution, err := s.FindLatestResult(ctx, s.config.MorningAssistantID, s.config.TargetPhoneNumber)
	if err != nil {
		logger.Warn("notes sync skipped: failed to resolve morning result", zap.Error(err))
		return
	}
	if !resolution.Found() {
		logger.Info("notes sync skipped: no morning call with a result")
		return
	}
	list := goals.Parse(resolution.Result)
	if len(list) == 0 {
		logger.Info("notes sync skipped: no goals in morning result", zap.String("morning_call_id", resolution.Call.ID))
		return
	}

	entry := notes.MorningEntry{
		CallID:     resolution.Call.ID,
		CallStatus: resolution.Call.Status,
		CallTime:   s.callTime(resolution.Call),
		Goals:      list,
	}
	if err := s.notes.SyncMorning(ctx, entry); err != nil {
		logger.Warn("notes sync failed", zap.Error(err))
		return
	}
	logger.Info("notes synced", zap.String("morning_call_id", entry.CallID), zap.Int("goals", len(list)))
}

// syncEveningNotes records the review of the most recent evening call
// against the morning goals. Failures are logged and never affect the run.
func (r *run) syncEveningNotes(ctx context.Context, morning *domain.Resolution) {
	s := r.svc
	if s.notes == nil {
		return
	}
	logger := r.logger.With(zap.String("step", "notes"))

	list := goals.Parse(morning.Result)
	if len(list) == 0 {
		logger.Info("notes sync skipped: no goals in morning result")
		return
	}

	resolution, err := s.FindLatestResult(ctx, s.config.EveningAssistantID, s.config.TargetPhoneNumber)
	if err != nil {
		logger.Warn("notes sync skipped: failed to resolve evening result", zap.Error(err))
		return
	}
	if !resolution.Found() {
		logger.Info("notes sync skipped: no evening call with a result")
		return
	}

	review := goals.ParseReview(resolution.Call.Artifact, list)
	entry := notes.EveningEntry{
		CallID:      resolution.Call.ID,
		CallTime:    s.callTime(resolution.Call),
		Goals:       list,
		Completed:   review.Completed,
		Reflections: review.Reflections,
	}
	if err := s.notes.SyncEvening(ctx, entry); err != nil {
		logger.Warn("notes sync failed", zap.Error(err))
		return
	}
	logger.Info("notes synced",
		zap.String("evening_call_id", entry.CallID),
		zap.Int("completed", review.CompletedCount()),
		zap.Int("goals", len(list)),
	)
}

// callTime is the call's end (or start) in local time, or now.
func (s *Service) callTime(call *domain.Call) time.Time {
	if ts := call.Timestamp(); ts != nil {
		return ts.Local()
	}
	return s.now()
}

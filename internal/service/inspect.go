package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/goals"
)

// Inspection is the read-only view of the latest morning result.
type Inspection struct {
	Resolution *domain.Resolution
	Goals      []string
	Attempts   int
}

// Inspect looks up the latest morning result without writing anything or
// placing any call.
func (s *Service) Inspect(ctx context.Context) (*Inspection, error) {
	if err := s.config.Validate(config.InspectKeys...); err != nil {
		return nil, err
	}
	resolution, err := s.FindLatestResult(ctx, s.config.MorningAssistantID, s.config.TargetPhoneNumber)
	if err != nil {
		return nil, err
	}
	return newInspection(resolution, 1), nil
}

// WaitOptions controls InspectWait.
type WaitOptions struct {
	Interval time.Duration
	// Timeout bounds the total wait; zero waits until ctx is done.
	Timeout time.Duration
	// Around and Tolerance restrict matches to calls near this time.
	Around    time.Time
	Tolerance time.Duration
}

// WaitOptionsFromConfig returns wait options from the polling configuration,
// centred on the current time.
func (s *Service) WaitOptionsFromConfig() WaitOptions {
	return WaitOptions{
		Interval:  s.config.PollInterval,
		Timeout:   s.config.PollTimeout,
		Around:    s.now(),
		Tolerance: s.config.TimeTolerance,
	}
}

// InspectWait polls until a morning call near opts.Around has a structured
// result, the timeout elapses or ctx is done. It is an operator convenience
// for watching a call that is still being processed; it never writes.
func (s *Service) InspectWait(ctx context.Context, opts WaitOptions) (*Inspection, error) {
	if err := s.config.Validate(config.InspectKeys...); err != nil {
		return nil, err
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Around.IsZero() {
		opts.Around = s.now()
	}

	criteria := Criteria{
		AssistantID: s.config.MorningAssistantID,
		Destination: s.config.TargetPhoneNumber,
		Around:      opts.Around,
		Tolerance:   opts.Tolerance,
	}

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = s.now().Add(opts.Timeout)
	}

	for attempt := 1; ; attempt++ {
		s.logger.Info("checking for structured result", zap.Int("attempt", attempt))
		resolution, err := s.findLatest(ctx, criteria)
		if err != nil {
			return nil, err
		}
		if resolution.Found() {
			return newInspection(resolution, attempt), nil
		}
		if !deadline.IsZero() && !s.now().Before(deadline) {
			s.logger.Info("timed out waiting for structured result", zap.Int("attempts", attempt))
			return newInspection(resolution, attempt), nil
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func newInspection(resolution *domain.Resolution, attempts int) *Inspection {
	return &Inspection{
		Resolution: resolution,
		Goals:      goals.Parse(resolution.Result),
		Attempts:   attempts,
	}
}

// RecentRuns returns journaled runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, flow domain.Flow, limit int) ([]domain.FlowOutcome, error) {
	return s.journal.ListRuns(ctx, flow, limit)
}

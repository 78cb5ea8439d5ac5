package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/domain"
)

// run tracks one flow execution through its stages.
type run struct {
	svc     *Service
	outcome *domain.FlowOutcome
	logger  *zap.Logger
}

func (s *Service) startRun(ctx context.Context, flow domain.Flow) *run {
	outcome := &domain.FlowOutcome{
		RunID:     "run_" + uuid.New().String()[:8],
		Flow:      flow,
		Stage:     domain.StageValidating,
		StartedAt: s.now(),
	}
	r := &run{
		svc:     s,
		outcome: outcome,
		logger:  s.logger.With(zap.String("run_id", outcome.RunID), zap.String("flow", string(flow))),
	}
	if err := s.journal.StartRun(ctx, outcome); err != nil {
		r.logger.Warn("failed to journal run start", zap.Error(err))
	}
	r.logger.Info("run started")
	return r
}

func (r *run) enter(stage domain.Stage) {
	r.outcome.Stage = stage
	r.logger.Debug("stage entered", zap.String("stage", string(stage)))
}

// abort moves the run to ABORTED, remembering the stage that failed.
func (r *run) abort(ctx context.Context, err error) *domain.FlowOutcome {
	r.outcome.FailedStage = r.outcome.Stage
	r.outcome.Stage = domain.StageAborted
	r.outcome.Err = err

	fields := []zap.Field{
		zap.String("failed_stage", string(r.outcome.FailedStage)),
		zap.Int("inspected", r.outcome.Inspected),
		zap.Error(err),
	}
	if errors.Is(err, domain.ErrNoPriorResult) {
		r.logger.Warn("run aborted: no prior result", fields...)
	} else {
		r.logger.Error("run aborted", fields...)
	}
	return r.finish(ctx)
}

func (r *run) done(ctx context.Context) *domain.FlowOutcome {
	r.outcome.Stage = domain.StageDone
	r.logger.Info("run done", zap.String("call_id", r.outcome.CallID))
	return r.finish(ctx)
}

func (r *run) finish(ctx context.Context) *domain.FlowOutcome {
	r.outcome.EndedAt = r.svc.now()
	if err := r.svc.journal.FinishRun(ctx, r.outcome); err != nil {
		r.logger.Warn("failed to journal run end", zap.Error(err))
	}
	return r.outcome
}

// RunEvening carries the morning result into the evening assistant and
// places the evening call:
//
//	VALIDATING -> RESOLVING -> UPDATING -> CALLING -> DONE
//
// Any failure moves the run to ABORTED. The evening call is placed only when
// a morning result was found and the evening assistant was updated with it.
func (s *Service) RunEvening(ctx context.Context) *domain.FlowOutcome {
	r := s.startRun(ctx, domain.FlowEvening)
	cfg := s.config

	if err := cfg.Validate(config.EveningKeys...); err != nil {
		return r.abort(ctx, err)
	}

	r.enter(domain.StageResolving)
	resolution, err := s.FindLatestResult(ctx, cfg.MorningAssistantID, cfg.TargetPhoneNumber)
	if err != nil {
		return r.abort(ctx, err)
	}
	r.outcome.Inspected = resolution.Inspected
	if !resolution.Found() {
		return r.abort(ctx, domain.ErrNoPriorResult)
	}
	r.logger.Info("morning result resolved",
		zap.String("morning_call_id", resolution.Call.ID),
		zap.Int("inspected", resolution.Inspected),
	)

	call := CallRequest{
		Flow:           domain.FlowEvening,
		AssistantID:    cfg.EveningAssistantID,
		PhoneNumberID:  cfg.PhoneNumberID,
		Destination:    cfg.TargetPhoneNumber,
		HasPriorResult: true,
	}

	r.enter(domain.StageUpdating)
	// Refuse before touching the assistant if the call would be blocked anyway.
	if err := s.authorize(ctx, call); err != nil {
		return r.abort(ctx, err)
	}
	if err := s.PropagateResult(ctx, cfg.EveningAssistantID, resolution.Result, nil); err != nil {
		return r.abort(ctx, err)
	}

	r.enter(domain.StageCalling)
	placed, err := s.PlaceCall(ctx, call)
	if err != nil {
		return r.abort(ctx, err)
	}
	r.outcome.CallID = placed.ID
	r.outcome.CallStatus = placed.Status

	outcome := r.done(ctx)
	r.syncEveningNotes(ctx, resolution)
	return outcome
}

// RunMorning places the morning call.
func (s *Service) RunMorning(ctx context.Context) *domain.FlowOutcome {
	r := s.startRun(ctx, domain.FlowMorning)
	cfg := s.config

	if err := cfg.Validate(config.MorningKeys...); err != nil {
		return r.abort(ctx, err)
	}

	r.enter(domain.StageCalling)
	placed, err := s.PlaceCall(ctx, CallRequest{
		Flow:          domain.FlowMorning,
		AssistantID:   cfg.MorningAssistantID,
		PhoneNumberID: cfg.PhoneNumberID,
		Destination:   cfg.TargetPhoneNumber,
	})
	if err != nil {
		return r.abort(ctx, err)
	}
	r.outcome.CallID = placed.ID
	r.outcome.CallStatus = placed.Status

	outcome := r.done(ctx)
	r.syncMorningNotes(ctx)
	return outcome
}

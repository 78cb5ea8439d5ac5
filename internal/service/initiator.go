package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/policy"
)

// CallRequest describes an outbound call to place.
type CallRequest struct {
	Flow           domain.Flow
	AssistantID    string
	PhoneNumberID  string
	Destination    string
	HasPriorResult bool
}

// PlaceCall places one outbound call. It is never retried: a failure is
// returned to the caller and the next scheduled run tries again.
func (s *Service) PlaceCall(ctx context.Context, req CallRequest) (*domain.Call, error) {
	if err := validateCallRequest(req); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, req); err != nil {
		return nil, err
	}

	call, err := s.platform.CreateCall(ctx, &vapi.CreateCallRequest{
		AssistantID:   req.AssistantID,
		PhoneNumberID: req.PhoneNumberID,
		Customer:      domain.Customer{Number: req.Destination},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place call: %w", err)
	}

	s.logger.Info("call placed",
		zap.String("flow", string(req.Flow)),
		zap.String("call_id", call.ID),
		zap.String("status", string(call.Status)),
		zap.String("assistant_id", req.AssistantID),
		zap.String("destination", req.Destination),
	)
	return call, nil
}

func validateCallRequest(req CallRequest) error {
	var missing []string
	if strings.TrimSpace(req.AssistantID) == "" {
		missing = append(missing, "assistant_id")
	}
	if strings.TrimSpace(req.PhoneNumberID) == "" {
		missing = append(missing, "phone_number_id")
	}
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{Missing: missing}
	}
	return nil
}

// authorize evaluates the placement policy for a call.
func (s *Service) authorize(ctx context.Context, req CallRequest) error {
	if s.policyEngine == nil {
		return nil
	}

	decision, err := s.policyEngine.Evaluate(ctx, policy.Input{
		Flow:           req.Flow,
		AssistantID:    req.AssistantID,
		Destination:    req.Destination,
		HasPriorResult: req.HasPriorResult,
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate call policy: %w", err)
	}
	if !decision.Allowed() {
		s.logger.Warn("call blocked by policy",
			zap.String("flow", string(req.Flow)),
			zap.String("reason", decision.Reason),
		)
		return fmt.Errorf("%w: %s", domain.ErrCallBlocked, decision.Reason)
	}
	return nil
}

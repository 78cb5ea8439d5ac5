package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/prompt"
)

// BuildInstructions renders the instruction text for a result. A nil
// template selects the service template.
func (s *Service) BuildInstructions(result domain.StructuredResult, tmpl *prompt.Template) (string, error) {
	if tmpl == nil {
		tmpl = s.template
	}
	return tmpl.Render(result)
}

// PropagateResult replaces the target assistant's instructions with the
// template rendered around result. The previous model configuration is
// discarded, not merged.
func (s *Service) PropagateResult(ctx context.Context, targetAssistantID string, result domain.StructuredResult, tmpl *prompt.Template) error {
	if strings.TrimSpace(targetAssistantID) == "" {
		return &domain.ConfigurationError{Missing: []string{"target_assistant_id"}}
	}
	if result.Empty() {
		return domain.ErrNoPriorResult
	}

	instructions, err := s.BuildInstructions(result, tmpl)
	if err != nil {
		return err
	}

	assistant, err := s.platform.UpdateAssistant(ctx, targetAssistantID, &vapi.UpdateAssistantRequest{
		Model: &domain.AssistantModel{
			Provider: s.settings.Provider,
			Model:    s.settings.Model,
			Messages: []domain.ModelMessage{
				{Role: domain.RoleSystem, Content: instructions},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update assistant %s: %w", targetAssistantID, err)
	}

	s.logger.Info("assistant instructions replaced",
		zap.String("assistant_id", assistant.ID),
		zap.String("assistant_name", assistant.Name),
		zap.Int("instruction_bytes", len(instructions)),
	)
	return nil
}

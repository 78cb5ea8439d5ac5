// Package service implements call continuity: placing calls, resolving the
// latest structured result of a prior call and carrying it into the next
// call's assistant.
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/notes"
	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/prompt"
	"github.com/xiaot623/callbuddy/internal/repository"
	"github.com/xiaot623/callbuddy/policy"
)

type Service struct {
	platform     vapi.Platform
	journal      repository.Journal
	notes        notes.Syncer
	config       *config.Config
	policyEngine *policy.Engine
	settings     config.PromptSettings
	template     *prompt.Template
	logger       *zap.Logger

	now func() time.Time
}

// New creates a service. A nil journal disables run journaling, a nil notes
// syncer disables vault sync, a nil policy engine allows every call, and a
// nil logger discards logs.
func New(platform vapi.Platform, journal repository.Journal, syncer notes.Syncer, cfg *config.Config, policyEngine *policy.Engine, settings config.PromptSettings, logger *zap.Logger) (*Service, error) {
	tmpl, err := prompt.Parse(settings.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruction template: %w", err)
	}
	if journal == nil {
		journal = repository.NopJournal{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		platform:     platform,
		journal:      journal,
		notes:        syncer,
		config:       cfg,
		policyEngine: policyEngine,
		settings:     settings,
		template:     tmpl,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

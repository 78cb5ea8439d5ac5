package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/notes"
	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/repository"
	"github.com/xiaot623/callbuddy/internal/service"
	"github.com/xiaot623/callbuddy/policy"
)

// newService wires the service from configuration. The returned cleanup
// closes the run journal.
func (a *app) newService(ctx context.Context) (*service.Service, func(), error) {
	settings, err := config.LoadPromptSettings(a.cfg.PromptConfigFile)
	if err != nil {
		return nil, nil, err
	}

	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init policy engine: %w", err)
	}

	var journal repository.Journal = repository.NopJournal{}
	if a.cfg.JournalDSN != "" {
		sqliteJournal, err := repository.NewSQLiteJournal(a.cfg.JournalDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open run journal: %w", err)
		}
		journal = sqliteJournal
		a.logger.Debug("run journal opened", zap.String("dsn", a.cfg.JournalDSN))
	}

	platform := vapi.NewPlatform(a.cfg.Mode, a.cfg.BaseURL, a.cfg.APIToken, a.cfg.HTTPTimeout, a.logger)

	syncer := notes.NewSyncer(a.cfg.Mode, notes.Settings{
		Enabled:   a.cfg.ObsidianEnabled,
		RepoURL:   a.cfg.ObsidianRepoURL,
		Token:     a.cfg.ObsidianGitHubToken,
		UserName:  a.cfg.ObsidianGitUserName,
		UserEmail: a.cfg.ObsidianGitUserEmail,
	}, a.logger)

	svc, err := service.New(platform, journal, syncer, a.cfg, policyEngine, settings, a.logger)
	if err != nil {
		_ = journal.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := journal.Close(); err != nil {
			a.logger.Warn("failed to close run journal", zap.Error(err))
		}
	}
	return svc, cleanup, nil
}

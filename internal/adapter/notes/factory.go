package notes

import (
	"go.uber.org/zap"
)

// ModeMock selects the in-memory syncer.
const ModeMock = "MOCK"

// Settings configures vault sync.
type Settings struct {
	Enabled   bool
	RepoURL   string
	Token     string
	UserName  string
	UserEmail string
}

// NewSyncer returns the syncer for the settings, or nil when vault sync is
// disabled or incompletely configured. MOCK mode returns a MockSyncer so no
// repository is ever pushed.
func NewSyncer(mode string, settings Settings, logger *zap.Logger) Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !settings.Enabled {
		logger.Debug("obsidian sync disabled")
		return nil
	}
	if settings.RepoURL == "" || settings.Token == "" {
		logger.Warn("obsidian sync enabled but repository URL or token missing, skipping")
		return nil
	}
	if mode == ModeMock {
		logger.Warn("mock mode detected, using in-memory notes syncer", zap.String("mode", mode))
		return NewMockSyncer()
	}
	return NewGitSyncer(settings.RepoURL, settings.Token, settings.UserName, settings.UserEmail, logger)
}

package vapi

import (
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "CALLBUDDY_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewPlatform creates a platform client based on mode. An empty mode falls
// back to the CALLBUDDY_MODE environment variable. MOCK returns an in-memory
// MockClient that never places real calls.
func NewPlatform(mode, baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) Platform {
	if mode == "" {
		mode = os.Getenv(EnvMode)
	}

	if mode == ModeMock {
		logger.Warn("mock mode detected, using in-memory platform", zap.String("mode", mode))
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}

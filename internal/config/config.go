// Package config provides configuration for callbuddy.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Environment keys.
const (
	KeyAPIToken           = "VAPI_API_TOKEN"
	KeyMorningAssistantID = "MORNING_ASSISTANT_ID"
	KeyEveningAssistantID = "EVENING_ASSISTANT_ID"
	KeyPhoneNumberID      = "PHONE_NUMBER_ID"
	KeyTargetPhoneNumber  = "TARGET_PHONE_NUMBER"
)

// Config holds the callbuddy configuration.
type Config struct {
	// Platform
	APIToken    string
	BaseURL     string
	HTTPTimeout time.Duration
	ListLimit   int
	Mode        string

	// Profiles and numbers
	MorningAssistantID string
	EveningAssistantID string
	PhoneNumberID      string
	TargetPhoneNumber  string

	// Prompt settings file (optional)
	PromptConfigFile string

	// Run journal (optional)
	JournalDSN string

	// Obsidian vault sync (optional)
	ObsidianEnabled      bool
	ObsidianRepoURL      string
	ObsidianGitHubToken  string
	ObsidianGitUserName  string
	ObsidianGitUserEmail string

	// Inspector polling
	PollInterval  time.Duration
	PollTimeout   time.Duration
	TimeTolerance time.Duration

	// Server settings
	HTTPPort int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		APIToken:             getEnv(KeyAPIToken, ""),
		BaseURL:              getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		HTTPTimeout:          time.Duration(getEnvInt("VAPI_HTTP_TIMEOUT_MS", 0)) * time.Millisecond,
		ListLimit:            getEnvInt("VAPI_LIST_LIMIT", 0),
		Mode:                 getEnv("CALLBUDDY_MODE", ""),
		MorningAssistantID:   getEnv(KeyMorningAssistantID, ""),
		EveningAssistantID:   getEnv(KeyEveningAssistantID, ""),
		PhoneNumberID:        getEnv(KeyPhoneNumberID, ""),
		TargetPhoneNumber:    getEnv(KeyTargetPhoneNumber, ""),
		PromptConfigFile:     getEnv("PROMPT_CONFIG_FILE", ""),
		JournalDSN:           getEnv("JOURNAL_DSN", ""),
		ObsidianEnabled:      getEnvBool("OBSIDIAN_ENABLED", false),
		ObsidianRepoURL:      getEnv("OBSIDIAN_REPO_URL", ""),
		ObsidianGitHubToken:  getEnv("OBSIDIAN_GITHUB_TOKEN", ""),
		ObsidianGitUserName:  getEnv("OBSIDIAN_GIT_USER_NAME", "Accountability Buddy Bot"),
		ObsidianGitUserEmail: getEnv("OBSIDIAN_GIT_USER_EMAIL", "bot@accountability.local"),
		PollInterval:         seconds(maxFloat(1, getEnvFloat("VAPI_POLL_INTERVAL_SECONDS", 5))),
		PollTimeout:          seconds(maxFloat(0, getEnvFloat("VAPI_POLL_TIMEOUT_SECONDS", 0))),
		TimeTolerance:        time.Duration(maxFloat(1, getEnvFloat("VAPI_CALL_TIME_TOLERANCE_MINUTES", 120)) * float64(time.Minute)),
		HTTPPort:             getEnvInt("HTTP_PORT", 8080),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// Required key sets per flow.
var (
	MorningKeys = []string{KeyAPIToken, KeyMorningAssistantID, KeyPhoneNumberID, KeyTargetPhoneNumber}
	EveningKeys = []string{KeyAPIToken, KeyMorningAssistantID, KeyEveningAssistantID, KeyPhoneNumberID, KeyTargetPhoneNumber}
	InspectKeys = []string{KeyAPIToken, KeyMorningAssistantID, KeyTargetPhoneNumber}
)

// Validate checks that every given key has a non-empty value. All missing
// keys are reported together in a *domain.ConfigurationError.
func (c *Config) Validate(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(c.value(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{Missing: missing}
	}
	return nil
}

func (c *Config) value(key string) string {
	switch key {
	case KeyAPIToken:
		return c.APIToken
	case KeyMorningAssistantID:
		return c.MorningAssistantID
	case KeyEveningAssistantID:
		return c.EveningAssistantID
	case KeyPhoneNumberID:
		return c.PhoneNumberID
	case KeyTargetPhoneNumber:
		return c.TargetPhoneNumber
	}
	return ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default model settings applied to the evening assistant.
const (
	DefaultModelProvider = "openai"
	DefaultModel         = "gpt-4o"
)

// PromptSettings controls how the evening instructions are built.
type PromptSettings struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Template is a text/template with a {{.Goals}} placeholder. Empty selects the built-in template.
	Template string `yaml:"template"`
}

// DefaultPromptSettings returns the built-in prompt settings.
func DefaultPromptSettings() PromptSettings {
	return PromptSettings{
		Provider: DefaultModelProvider,
		Model:    DefaultModel,
	}
}

// LoadPromptSettings reads prompt settings from a YAML file. An empty path
// returns the defaults; fields missing from the file keep their defaults.
func LoadPromptSettings(path string) (PromptSettings, error) {
	settings := DefaultPromptSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read prompt config: %w", err)
	}

	var fileSettings PromptSettings
	if err := yaml.Unmarshal(data, &fileSettings); err != nil {
		return settings, fmt.Errorf("failed to parse prompt config %s: %w", path, err)
	}

	if fileSettings.Provider != "" {
		settings.Provider = fileSettings.Provider
	}
	if fileSettings.Model != "" {
		settings.Model = fileSettings.Model
	}
	settings.Template = fileSettings.Template
	return settings, nil
}

package onboarding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is where setup writes and the gateway reads the
// onboarding config unless told otherwise.
const DefaultConfigPath = "~/.maxy/config.json"

// Config represents the core settings gathered during onboarding.
type Config struct {
	DataDir       string              `json:"data_dir"`
	TelegramToken string              `json:"telegram_token,omitempty"`
	OwnerID       string              `json:"owner_id,omitempty"`
	LLMFallback   bool                `json:"llm_fallback"`
	LLMModel      string              `json:"llm_model,omitempty"`
	LLMBaseURL    string              `json:"llm_base_url,omitempty"`
	Middlewares   []MiddlewareSetting `json:"middlewares"`
}

// LoadFromFile loads the configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) SaveToFile(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// expandHome resolves a leading ~/ to the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

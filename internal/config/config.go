package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds process configuration. Values are resolved in order of
// increasing precedence: built-in defaults, an optional YAML file, then
// environment variables (a .env file in the working directory is loaded
// first when present).
//
// Credentials are not validated at load time; a missing API key surfaces
// as a provider error at first use.
type Config struct {
	// Model is the chat model identifier sent to the provider.
	Model string `yaml:"model"`

	// APIKey authenticates against the OpenAI-compatible API.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider endpoint (empty uses the provider default).
	BaseURL string `yaml:"base_url"`

	// ListenAddr is the HTTP listen address for serve mode.
	ListenAddr string `yaml:"listen_addr"`

	// DataDir is the BadgerDB directory for durable conversation
	// checkpoints. Empty keeps checkpoints in process memory.
	DataDir string `yaml:"data_dir"`

	// TypingIntervalMS paces streamed events for a typing effect.
	TypingIntervalMS int `yaml:"typing_interval_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Model:            "gpt-4o-mini",
		ListenAddr:       ":8080",
		TypingIntervalMS: 30,
		LogLevel:         "info",
	}
}

// Load resolves the configuration. path names an optional YAML file;
// empty skips the file layer.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Model, "CHATFLOW_MODEL")
	setString(&cfg.APIKey, "OPENAI_API_KEY")
	setString(&cfg.BaseURL, "OPENAI_API_BASE_URL")
	setString(&cfg.ListenAddr, "CHATFLOW_ADDR")
	setString(&cfg.DataDir, "CHATFLOW_DATA_DIR")
	setString(&cfg.LogLevel, "CHATFLOW_LOG_LEVEL")

	if value := os.Getenv("CHATFLOW_TYPING_INTERVAL_MS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			cfg.TypingIntervalMS = parsed
		}
	}
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

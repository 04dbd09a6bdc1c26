// Package config loads runtime configuration from defaults, an optional
// .env file, and APEXCOACH_* environment variables (highest precedence).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Gateway providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type GatewayConfig struct {
	Provider    string // "openai" (any OpenAI-compatible endpoint) or "ollama"
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

type StorageConfig struct {
	DataDir        string
	MaxUploadBytes int64
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		Gateway: GatewayConfig{
			Provider:    ProviderOpenAI,
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   900,
		},
		Storage: StorageConfig{
			DataDir:        defaultDataDir(),
			MaxUploadBytes: 10 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".apexcoach")
	}
	return ".apexcoach"
}

// Load reads configuration. A .env file in the working directory is loaded
// first if present; explicit environment variables always win.
func Load() (Config, error) {
	// Missing .env is fine; only explicit env is required.
	_ = godotenv.Load()

	cfg := defaults()
	applyEnvOverrides(&cfg)

	switch cfg.Gateway.Provider {
	case ProviderOpenAI:
		if cfg.Gateway.APIKey == "" {
			return Config{}, fmt.Errorf(
				"missing required config: gateway API key. Set APEXCOACH_GATEWAY_API_KEY " +
					"or switch to the ollama provider via APEXCOACH_GATEWAY_PROVIDER=ollama")
		}
	case ProviderOllama:
		// Local engine, no key needed. Default base URL moves to Ollama's.
		if cfg.Gateway.BaseURL == defaults().Gateway.BaseURL && os.Getenv("APEXCOACH_GATEWAY_BASE_URL") == "" {
			cfg.Gateway.BaseURL = "http://localhost:11434"
		}
	default:
		return Config{}, fmt.Errorf("unknown gateway provider %q (want %q or %q)", cfg.Gateway.Provider, ProviderOpenAI, ProviderOllama)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APEXCOACH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_PROVIDER"); v != "" {
		cfg.Gateway.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_MODEL"); v != "" {
		cfg.Gateway.Model = v
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Gateway.Temperature = f
		}
	}
	if v := os.Getenv("APEXCOACH_GATEWAY_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.MaxTokens = n
		}
	}
	if v := os.Getenv("APEXCOACH_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("APEXCOACH_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Storage.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("APEXCOACH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

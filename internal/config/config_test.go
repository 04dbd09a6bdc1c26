package config

import "testing"

func TestLoadRequiresAPIKeyForOpenAI(t *testing.T) {
	t.Setenv("APEXCOACH_GATEWAY_API_KEY", "")
	t.Setenv("APEXCOACH_GATEWAY_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when API key is missing for openai provider")
	}
}

func TestLoadOllamaNeedsNoKey(t *testing.T) {
	t.Setenv("APEXCOACH_GATEWAY_API_KEY", "")
	t.Setenv("APEXCOACH_GATEWAY_PROVIDER", "ollama")
	t.Setenv("APEXCOACH_GATEWAY_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://localhost:11434" {
		t.Errorf("base URL = %q, want Ollama default", cfg.Gateway.BaseURL)
	}
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("APEXCOACH_GATEWAY_PROVIDER", "smoke-signals")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APEXCOACH_GATEWAY_PROVIDER", "openai")
	t.Setenv("APEXCOACH_GATEWAY_API_KEY", "sk-test")
	t.Setenv("APEXCOACH_PORT", "9090")
	t.Setenv("APEXCOACH_GATEWAY_MODEL", "openai/gpt-4.1")
	t.Setenv("APEXCOACH_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("APEXCOACH_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Gateway.Model != "openai/gpt-4.1" {
		t.Errorf("model = %q", cfg.Gateway.Model)
	}
	if cfg.Storage.MaxUploadBytes != 2048 {
		t.Errorf("max upload = %d", cfg.Storage.MaxUploadBytes)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestInvalidNumericOverridesKeepDefaults(t *testing.T) {
	t.Setenv("APEXCOACH_GATEWAY_PROVIDER", "openai")
	t.Setenv("APEXCOACH_GATEWAY_API_KEY", "sk-test")
	t.Setenv("APEXCOACH_PORT", "not-a-port")
	t.Setenv("APEXCOACH_MAX_UPLOAD_BYTES", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("port = %d, want default 4000", cfg.Server.Port)
	}
	if cfg.Storage.MaxUploadBytes != 10<<20 {
		t.Errorf("max upload = %d, want default", cfg.Storage.MaxUploadBytes)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %q, expected %q", cfg.LLM.Provider, "gemini")
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("LLM.Model = %q, expected %q", cfg.LLM.Model, "gemini-2.5-flash")
	}
	if cfg.Dashboard.DeadlineWindowDays != 7 {
		t.Errorf("DeadlineWindowDays = %d, expected 7", cfg.Dashboard.DeadlineWindowDays)
	}
	if cfg.LLM.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, expected 60", cfg.LLM.TimeoutSeconds)
	}
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\nllm:\n  provider: ollama\n  model: llama3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, expected %q", cfg.Server.Port, "9090")
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("LLM.Provider = %q, expected %q", cfg.LLM.Provider, "ollama")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, expected default %q", cfg.Database.Driver, "sqlite")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")
	t.Setenv("ENTITLEMENT_MODE", "none")

	cfg := DefaultConfig()
	cfg.overrideFromEnv()

	if cfg.LLM.APIKey != "google-key" {
		t.Errorf("LLM.APIKey = %q, expected %q", cfg.LLM.APIKey, "google-key")
	}
	if cfg.LLM.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, expected 15", cfg.LLM.TimeoutSeconds)
	}
	if cfg.Entitlement.Mode != "none" {
		t.Errorf("Entitlement.Mode = %q, expected %q", cfg.Entitlement.Mode, "none")
	}
}

func TestOverrideFromEnv_LLMKeyWins(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("LLM_API_KEY", "generic-key")

	cfg := DefaultConfig()
	cfg.overrideFromEnv()

	if cfg.LLM.APIKey != "generic-key" {
		t.Errorf("LLM.APIKey = %q, expected %q", cfg.LLM.APIKey, "generic-key")
	}
}

func TestOverrideFromEnv_GoogleKeyIgnoredForOtherProviders(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg := DefaultConfig()
	cfg.overrideFromEnv()

	if cfg.LLM.APIKey != "" {
		t.Errorf("LLM.APIKey = %q, expected empty", cfg.LLM.APIKey)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = "7070"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, expected %q", loaded.Server.Port, "7070")
	}
}

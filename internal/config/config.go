package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	LLM         LLMConfig         `yaml:"llm"`
	Entitlement EntitlementConfig `yaml:"entitlement"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Audit       AuditConfig       `yaml:"audit"`
	Log         LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test

	CORSOrigins []string `yaml:"cors_origins"` // empty allows any origin
	// Requests per second and burst for POST /api/insights/analyze, per user.
	AnalyzeRPS   float64 `yaml:"analyze_rps"`
	AnalyzeBurst int     `yaml:"analyze_burst"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LLMConfig selects the text-generation backend used for project insights.
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // gemini, openai, azure, anthropic, ollama
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type EntitlementConfig struct {
	Mode string `yaml:"mode"` // none, subscription
}

type DashboardConfig struct {
	DeadlineWindowDays int    `yaml:"deadline_window_days"`
	HolidayCountry     string `yaml:"holiday_country"` // ISO code, CN, or NONE for plain weekdays
}

type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RetentionDays int    `yaml:"retention_days"`
	CleanupCron   string `yaml:"cleanup_cron"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",

			AnalyzeRPS:   0.2,
			AnalyzeBurst: 3,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "projectpulse.db",
		},
		JWT: JWTConfig{
			Secret: "projectpulse-secret-key-change-in-production",
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-2.5-flash",
			MaxTokens:      2048,
			Temperature:    0.3,
			TimeoutSeconds: 60,
		},
		Entitlement: EntitlementConfig{
			Mode: "subscription",
		},
		Dashboard: DashboardConfig{
			DeadlineWindowDays: 7,
			HolidayCountry:     "NONE",
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 30,
			CleanupCron:   "0 3 * * *",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = strings.Split(origins, ",")
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		c.LLM.BaseURL = baseURL
	}
	// GOOGLE_API_KEY is honoured for the default gemini provider; LLM_API_KEY wins when both are set.
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" && c.LLM.Provider == "gemini" {
		c.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}
	if timeout := os.Getenv("LLM_TIMEOUT_SECONDS"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil && v > 0 {
			c.LLM.TimeoutSeconds = v
		}
	}
	if mode := os.Getenv("ENTITLEMENT_MODE"); mode != "" {
		c.Entitlement.Mode = mode
	}
	if country := os.Getenv("HOLIDAY_COUNTRY"); country != "" {
		c.Dashboard.HolidayCountry = country
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

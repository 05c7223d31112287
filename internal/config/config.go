package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Upstream analytics backend
	UpstreamURL            string `json:"upstream_url"`
	UpstreamTimeoutSeconds int    `json:"upstream_timeout_seconds"`
	ProbeEnabled           bool   `json:"probe_enabled"`

	// Upstream simulator (yellowbird-upstream binary)
	SimulatorPort   int    `json:"simulator_port"`
	SimulatorFormat string `json:"simulator_format"` // "array" | "map" | "history"

	// Simulator data sources
	PostgresDSN                  string `json:"postgres_dsn"`
	GCPProjectID                 string `json:"gcp_project_id"`
	GoogleApplicationCredentials string `json:"google_application_credentials"`
	BigQueryLocation             string `json:"bigquery_location"`

	// Simulator AI answerer
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for custom proxy
	AnthropicModel   string `json:"anthropic_model"`
	AgentTimeout     int    `json:"agent_timeout"` // seconds
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:                   DefaultHost,
		Port:                   DefaultPort,
		Environment:            DefaultEnvironment,
		APIPrefix:              DefaultAPIPrefix,
		LogLevel:               DefaultLogLevel,
		CORSOrigins:            DefaultCORSOrigins,
		APIKeyHeader:           "X-API-Key",
		RateLimitPerMinute:     DefaultRateLimitPerMinute,
		UpstreamURL:            DefaultUpstreamURL,
		UpstreamTimeoutSeconds: DefaultUpstreamTimeoutSeconds,
		ProbeEnabled:           true,
		SimulatorPort:          DefaultSimulatorPort,
		SimulatorFormat:        DefaultSimulatorFormat,
		BigQueryLocation:       DefaultBigQueryLocation,
		AgentTimeout:           DefaultAgentTimeout,
	}

	// Load from JSON config file if specified
	if path := getEnv("YELLOWBIRD_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("YELLOWBIRD_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("YELLOWBIRD_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("YELLOWBIRD_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("YELLOWBIRD_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("YELLOWBIRD_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("YELLOWBIRD_UPSTREAM_URL", ""); v != "" {
		cfg.UpstreamURL = v
	}
	if v := getEnv("YELLOWBIRD_UPSTREAM_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.UpstreamTimeoutSeconds = t
		}
	}
	if v := getEnv("YELLOWBIRD_PROBE_ENABLED", ""); v != "" {
		cfg.ProbeEnabled = v == "true" || v == "1"
	}
	if v := getEnv("YELLOWBIRD_SIMULATOR_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.SimulatorPort = p
		}
	}
	if v := getEnv("YELLOWBIRD_SIMULATOR_FORMAT", ""); v != "" {
		cfg.SimulatorFormat = v
	}
	if v := getEnv("YELLOWBIRD_POSTGRES_DSN", ""); v != "" {
		cfg.PostgresDSN = v
	}
	if v := getEnv("GCP_PROJECT_ID", ""); v != "" {
		cfg.GCPProjectID = v
	}
	if v := getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""); v != "" {
		cfg.GoogleApplicationCredentials = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("YELLOWBIRD_ANTHROPIC_MODEL", ""); v != "" {
		cfg.AnthropicModel = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

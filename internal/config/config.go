package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the critiq configuration.
type Config struct {
	Provider       string        `json:"provider"`
	Model          string        `json:"model"`
	Format         string        `json:"format"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"maxTokens"`
	TimeoutSeconds int           `json:"timeoutSeconds"`
	MinReviewScore float64       `json:"minReviewScore"`
	AutoPostReview bool          `json:"autoPostReview"`
	WeightsFile    string        `json:"weightsFile,omitempty"`
	Server         ServerConfig  `json:"server"`
	Gerrit         GerritConfig  `json:"gerrit"`
	Cache          CacheConfig   `json:"cache"`
	Privacy        PrivacyConfig `json:"privacy"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	AllowedOrigin string `json:"allowedOrigin,omitempty"`
}

// GerritConfig holds the Gerrit endpoint. Credentials come from the
// environment only and are never written to disk.
type GerritConfig struct {
	URL string `json:"url,omitempty"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:       "gemini",
		Model:          "gemini-2.0-flash",
		Format:         "text",
		Temperature:    0.3,
		MaxTokens:      4000,
		TimeoutSeconds: 300,
		MinReviewScore: 7.0,
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3001,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for critiq.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critiq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "critiq"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "critiq"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "critiq"), nil
	default:
		return filepath.Join(home, ".config", "critiq"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	payload, err := loadFilePayload()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, payload)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

// filePayload mirrors Config for reading the config file. Toggles are
// pointers so an explicit false can be told apart from an absent key;
// a plain bool would silently re-enable anything defaulted on.
type filePayload struct {
	Provider       string  `json:"provider"`
	Model          string  `json:"model"`
	Format         string  `json:"format"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"maxTokens"`
	TimeoutSeconds int     `json:"timeoutSeconds"`
	MinReviewScore float64 `json:"minReviewScore"`
	AutoPostReview *bool   `json:"autoPostReview"`
	WeightsFile    string  `json:"weightsFile"`
	Server         struct {
		Host          string `json:"host"`
		Port          int    `json:"port"`
		AllowedOrigin string `json:"allowedOrigin"`
	} `json:"server"`
	Gerrit struct {
		URL string `json:"url"`
	} `json:"gerrit"`
	Cache struct {
		Enabled    *bool  `json:"enabled"`
		Dir        string `json:"dir"`
		TTLSeconds int    `json:"ttlSeconds"`
	} `json:"cache"`
	Privacy struct {
		RedactSecrets *bool `json:"redactSecrets"`
	} `json:"privacy"`
}

func loadFilePayload() (filePayload, error) {
	var payload filePayload
	path, err := ConfigPath()
	if err != nil {
		return payload, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return payload, nil
		}
		return payload, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("parsing config file: %w", err)
	}
	return payload, nil
}

func mergeFile(dst *Config, src filePayload) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.MinReviewScore > 0 {
		dst.MinReviewScore = src.MinReviewScore
	}
	if src.AutoPostReview != nil {
		dst.AutoPostReview = *src.AutoPostReview
	}
	if src.WeightsFile != "" {
		dst.WeightsFile = src.WeightsFile
	}
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port > 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.AllowedOrigin != "" {
		dst.Server.AllowedOrigin = src.Server.AllowedOrigin
	}
	if src.Gerrit.URL != "" {
		dst.Gerrit.URL = src.Gerrit.URL
	}
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = *src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	if src.Privacy.RedactSecrets != nil {
		dst.Privacy.RedactSecrets = *src.Privacy.RedactSecrets
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("CRITIQ_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("CRITIQ_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CRITIQ_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CRITIQ_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CRITIQ_MIN_REVIEW_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinReviewScore = f
		}
	}
	if v := os.Getenv("CRITIQ_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CRITIQ_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CRITIQ_ALLOWED_ORIGIN"); v != "" {
		cfg.Server.AllowedOrigin = v
	}
	if v := os.Getenv("CRITIQ_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("CRITIQ_REDACT_SECRETS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Privacy.RedactSecrets = b
		}
	}
	if v := os.Getenv("CRITIQ_AUTO_POST_REVIEW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoPostReview = b
		}
	}
	if v := os.Getenv("GERRIT_URL"); v != "" {
		cfg.Gerrit.URL = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["weightsFile"]; ok && v != "" {
		cfg.WeightsFile = v
	}
	if v, ok := overrides["timeoutSeconds"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v, ok := overrides["host"]; ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := overrides["port"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "weightsFile":
		cfg.WeightsFile = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "maxTokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxTokens must be an integer: %w", err)
		}
		cfg.MaxTokens = n
	case "timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutSeconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	case "minReviewScore":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("minReviewScore must be a number: %w", err)
		}
		cfg.MinReviewScore = f
	case "autoPostReview":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("autoPostReview must be true or false: %w", err)
		}
		cfg.AutoPostReview = b
	case "server.host":
		cfg.Server.Host = value
	case "server.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("server.port must be an integer: %w", err)
		}
		cfg.Server.Port = n
	case "gerrit.url":
		cfg.Gerrit.URL = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be true or false: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be true or false: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

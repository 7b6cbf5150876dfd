package config

import (
	"os"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "gemini" {
		t.Errorf("Default provider = %q, want %q", cfg.Provider, "gemini")
	}
	if cfg.Model != "gemini-2.0-flash" {
		t.Errorf("Default model = %q, want %q", cfg.Model, "gemini-2.0-flash")
	}
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("Default temperature = %v, want 0.3", cfg.Temperature)
	}
	if cfg.MaxTokens != 4000 {
		t.Errorf("Default maxTokens = %d, want 4000", cfg.MaxTokens)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("Default timeoutSeconds = %d, want 300", cfg.TimeoutSeconds)
	}
	if cfg.MinReviewScore != 7.0 {
		t.Errorf("Default minReviewScore = %v, want 7.0", cfg.MinReviewScore)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Default server host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Default server port = %d, want 3001", cfg.Server.Port)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
	if !cfg.Cache.Enabled {
		t.Error("Default cache should be enabled")
	}
}

func TestMergeEnv(t *testing.T) {
	// Save and restore env
	orig := map[string]string{}
	envKeys := []string{"CRITIQ_PROVIDER", "CRITIQ_MODEL", "CRITIQ_FORMAT", "CRITIQ_TIMEOUT_SECONDS", "CRITIQ_SERVER_PORT", "CRITIQ_MIN_REVIEW_SCORE"}
	for _, k := range envKeys {
		orig[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range orig {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("CRITIQ_PROVIDER", "openai")
	os.Setenv("CRITIQ_MODEL", "gpt-4o")
	os.Setenv("CRITIQ_FORMAT", "json")
	os.Setenv("CRITIQ_TIMEOUT_SECONDS", "120")
	os.Setenv("CRITIQ_SERVER_PORT", "8080")
	os.Setenv("CRITIQ_MIN_REVIEW_SCORE", "6.5")

	cfg := Default()
	mergeEnv(&cfg)

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d, want 120", cfg.TimeoutSeconds)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.MinReviewScore != 6.5 {
		t.Errorf("MinReviewScore = %v, want 6.5", cfg.MinReviewScore)
	}
}

func TestMergeEnv_InvalidNumber(t *testing.T) {
	orig := os.Getenv("CRITIQ_SERVER_PORT")
	defer func() {
		if orig == "" {
			os.Unsetenv("CRITIQ_SERVER_PORT")
		} else {
			os.Setenv("CRITIQ_SERVER_PORT", orig)
		}
	}()

	os.Setenv("CRITIQ_SERVER_PORT", "notanumber")

	cfg := Default()
	mergeEnv(&cfg)
	if cfg.Server.Port != 3001 {
		t.Errorf("Invalid env value should be ignored, port = %d", cfg.Server.Port)
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"provider":       "anthropic",
		"model":          "claude-sonnet-4-20250514",
		"format":         "json",
		"timeoutSeconds": "60",
		"port":           "9000",
	}
	mergeOverrides(&cfg, overrides)

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "anthropic")
	}
	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q, want %q", cfg.Model, "claude-sonnet-4-20250514")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	mergeOverrides(&cfg, nil)
	if cfg.Provider != "gemini" {
		t.Errorf("Provider changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"provider", "openai"},
		{"model", "gpt-4o"},
		{"format", "json"},
		{"temperature", "0.7"},
		{"maxTokens", "8000"},
		{"timeoutSeconds", "120"},
		{"minReviewScore", "6"},
		{"autoPostReview", "true"},
		{"server.host", "0.0.0.0"},
		{"server.port", "8080"},
		{"gerrit.url", "https://gerrit.example.com"},
		{"weightsFile", "weights.yaml"},
		{"cache.enabled", "false"},
		{"cache.ttlSeconds", "3600"},
		{"privacy.redactSecrets", "false"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d, want 8000", cfg.MaxTokens)
	}
	if !cfg.AutoPostReview {
		t.Error("AutoPostReview should be true")
	}
	if cfg.Gerrit.URL != "https://gerrit.example.com" {
		t.Errorf("Gerrit.URL = %q", cfg.Gerrit.URL)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false after set")
	}
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache.TTLSeconds = %d, want 3600", cfg.Cache.TTLSeconds)
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("Privacy.RedactSecrets should be false after set")
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	err := SetField(&cfg, "nonexistent", "value")
	if err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestSetField_InvalidInt(t *testing.T) {
	cfg := Default()
	err := SetField(&cfg, "maxTokens", "notanumber")
	if err == nil {
		t.Error("Expected error for non-integer value")
	}
}

func TestConfigPrecedence(t *testing.T) {
	// Overrides > env > defaults
	orig := os.Getenv("CRITIQ_PROVIDER")
	defer func() {
		if orig == "" {
			os.Unsetenv("CRITIQ_PROVIDER")
		} else {
			os.Setenv("CRITIQ_PROVIDER", orig)
		}
	}()

	os.Setenv("CRITIQ_PROVIDER", "openai")

	cfg := Default()
	mergeEnv(&cfg)
	if cfg.Provider != "openai" {
		t.Errorf("After env merge, Provider = %q, want %q", cfg.Provider, "openai")
	}

	mergeOverrides(&cfg, map[string]string{"provider": "anthropic"})
	if cfg.Provider != "anthropic" {
		t.Errorf("After override, Provider = %q, want %q", cfg.Provider, "anthropic")
	}
}

func boolPtr(b bool) *bool { return &b }

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := filePayload{
		Provider:       "openai",
		Model:          "gpt-4o",
		Format:         "json",
		Temperature:    0.5,
		MaxTokens:      8000,
		TimeoutSeconds: 60,
		MinReviewScore: 5.5,
		WeightsFile:    "weights.yaml",
	}
	src.Server.Host = "0.0.0.0"
	src.Server.Port = 8080
	src.Server.AllowedOrigin = "https://app.example.com"
	src.Gerrit.URL = "https://gerrit.example.com"
	src.Cache.Dir = "/tmp/cache"
	src.Cache.TTLSeconds = 3600
	mergeFile(&dst, src)

	if dst.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", dst.Provider, "openai")
	}
	if dst.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", dst.Temperature)
	}
	if dst.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d, want 8000", dst.MaxTokens)
	}
	if dst.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", dst.Server.Host, "0.0.0.0")
	}
	if dst.Server.AllowedOrigin != "https://app.example.com" {
		t.Errorf("AllowedOrigin = %q", dst.Server.AllowedOrigin)
	}
	if dst.Gerrit.URL != "https://gerrit.example.com" {
		t.Errorf("Gerrit.URL = %q", dst.Gerrit.URL)
	}
	if dst.Cache.Dir != "/tmp/cache" {
		t.Errorf("Cache.Dir = %q, want %q", dst.Cache.Dir, "/tmp/cache")
	}
	if dst.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache.TTLSeconds = %d, want 3600", dst.Cache.TTLSeconds)
	}
	if dst.WeightsFile != "weights.yaml" {
		t.Errorf("WeightsFile = %q", dst.WeightsFile)
	}
}

func TestMergeFile_EmptyFile(t *testing.T) {
	dst := Default()
	src := filePayload{} // empty file
	mergeFile(&dst, src)

	if !dst.Cache.Enabled {
		t.Error("Cache.Enabled should remain true when file is empty")
	}
	if !dst.Privacy.RedactSecrets {
		t.Error("Privacy.RedactSecrets should remain true when file is empty")
	}
	if dst.Provider != "gemini" {
		t.Errorf("Provider = %q, defaults should be preserved", dst.Provider)
	}
}

// An explicit false in the file must win over an enabled default.
func TestMergeFile_DisablesToggles(t *testing.T) {
	dst := Default()
	dst.AutoPostReview = true
	var src filePayload
	src.Cache.Enabled = boolPtr(false)
	src.Privacy.RedactSecrets = boolPtr(false)
	src.AutoPostReview = boolPtr(false)
	mergeFile(&dst, src)

	if dst.Cache.Enabled {
		t.Error("cache.enabled: false in the file should disable caching")
	}
	if dst.Privacy.RedactSecrets {
		t.Error("privacy.redactSecrets: false in the file should disable redaction")
	}
	if dst.AutoPostReview {
		t.Error("autoPostReview: false in the file should disable auto-posting")
	}
}

func TestMergeEnv_Toggles(t *testing.T) {
	t.Setenv("CRITIQ_CACHE_ENABLED", "false")
	t.Setenv("CRITIQ_REDACT_SECRETS", "false")
	t.Setenv("CRITIQ_AUTO_POST_REVIEW", "true")

	cfg := Default()
	mergeEnv(&cfg)

	if cfg.Cache.Enabled {
		t.Error("CRITIQ_CACHE_ENABLED=false should disable caching")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("CRITIQ_REDACT_SECRETS=false should disable redaction")
	}
	if !cfg.AutoPostReview {
		t.Error("CRITIQ_AUTO_POST_REVIEW=true should enable auto-posting")
	}
}

func TestLoad_FileDisablesCache(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfgDir := tmpDir + "/critiq"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"cache":{"enabled":false},"privacy":{"redactSecrets":false}}`
	if err := os.WriteFile(cfgDir+"/config.json", []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("file should be able to disable caching")
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("file should be able to disable redaction")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if orig == "" {
			os.Unsetenv("XDG_CONFIG_HOME")
		} else {
			os.Setenv("XDG_CONFIG_HOME", orig)
		}
	}()

	os.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg-test/critiq" {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/critiq")
	}
}

func TestConfigPath(t *testing.T) {
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if orig == "" {
			os.Unsetenv("XDG_CONFIG_HOME")
		} else {
			os.Setenv("XDG_CONFIG_HOME", orig)
		}
	}()

	os.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/critiq/config.json" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/critiq/config.json")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if orig == "" {
			os.Unsetenv("XDG_CONFIG_HOME")
		} else {
			os.Setenv("XDG_CONFIG_HOME", orig)
		}
	}()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o"
	cfg.MaxTokens = 8000

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", loaded.Provider, "openai")
	}
	if loaded.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", loaded.Model, "gpt-4o")
	}
	if loaded.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d, want 8000", loaded.MaxTokens)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	tmpDir := t.TempDir()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if orig == "" {
			os.Unsetenv("XDG_CONFIG_HOME")
		} else {
			os.Setenv("XDG_CONFIG_HOME", orig)
		}
	}()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	// Should return zero config, not defaults
	if cfg.Provider != "" {
		t.Errorf("Provider should be empty for missing file, got %q", cfg.Provider)
	}
}

func TestLoad_Integration(t *testing.T) {
	tmpDir := t.TempDir()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if orig == "" {
			os.Unsetenv("XDG_CONFIG_HOME")
		} else {
			os.Setenv("XDG_CONFIG_HOME", orig)
		}
	}()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file: defaults + overrides
	cfg, err := Load(map[string]string{"provider": "openai"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "openai")
	}
	// Defaults should be preserved for unset fields
	if cfg.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d, want 4000 (default)", cfg.MaxTokens)
	}
}

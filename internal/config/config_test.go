package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}

	if cfg.Schedule != "12:00" {
		t.Errorf("Schedule = %v, want 12:00", cfg.Schedule)
	}
	if !slices.Equal(cfg.Platforms, []string{"feishu"}) {
		t.Errorf("Platforms = %v, want [feishu]", cfg.Platforms)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"chinese", "english", "pun", "code"}) {
		t.Errorf("JokeTypes = %v, want [chinese english pun code]", cfg.JokeTypes)
	}
	if cfg.DigestCount != 3 {
		t.Errorf("DigestCount = %v, want 3", cfg.DigestCount)
	}
	if cfg.App.Name != "joke-bot" {
		t.Errorf("App.Name = %v, want joke-bot", cfg.App.Name)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("App.LogLevel = %v, want info", cfg.App.LogLevel)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS should be disabled by default")
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %v, want nats://localhost:4222", cfg.NATS.URL)
	}
}

func TestLoadShallowMerge(t *testing.T) {
	path := writeConfig(t, "config.json", `{"schedule": "09:00"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Schedule != "09:00" {
		t.Errorf("Schedule = %v, want 09:00", cfg.Schedule)
	}
	if !slices.Equal(cfg.Platforms, []string{"feishu"}) {
		t.Errorf("Platforms = %v, want default [feishu]", cfg.Platforms)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"chinese", "english", "pun", "code"}) {
		t.Errorf("JokeTypes = %v, want defaults", cfg.JokeTypes)
	}
}

func TestLoadArraysReplaceDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"platforms": ["wecom", "telegram"],
		"joke_types": ["pun"],
		"nats": {"enabled": true, "url": "nats://queue:4222"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(cfg.Platforms, []string{"wecom", "telegram"}) {
		t.Errorf("Platforms = %v, want [wecom telegram]", cfg.Platforms)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"pun"}) {
		t.Errorf("JokeTypes = %v, want [pun]", cfg.JokeTypes)
	}
	if !cfg.NATS.Enabled {
		t.Error("NATS.Enabled = false, want true")
	}
	if cfg.NATS.URL != "nats://queue:4222" {
		t.Errorf("NATS.URL = %v, want nats://queue:4222", cfg.NATS.URL)
	}
	if cfg.NATS.StreamName != "JOKEBOT" {
		t.Errorf("NATS.StreamName = %v, want JOKEBOT", cfg.NATS.StreamName)
	}
}

func TestLoadEmptyArrayKept(t *testing.T) {
	path := writeConfig(t, "config.json", `{"joke_types": []}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.JokeTypes == nil || len(cfg.JokeTypes) != 0 {
		t.Errorf("JokeTypes = %#v, want empty non-nil slice", cfg.JokeTypes)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "config.json", `{"schedule": `)

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed JSON")
	}
}

func TestLoadTrailingData(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage after object", `{"schedule": "09:00"} this is not json`},
		{"second object", `{"schedule": "09:00"} {"schedule": "10:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.content)
			_, err := Load(path)
			if !errors.Is(err, ErrTrailingData) {
				t.Errorf("Load() error = %v, want ErrTrailingData", err)
			}
		})
	}
}

func TestLoadTrailingWhitespace(t *testing.T) {
	path := writeConfig(t, "config.json", "{\"schedule\": \"09:00\"}\n\n  ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Schedule != "09:00" {
		t.Errorf("Schedule = %v, want 09:00", cfg.Schedule)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeConfig(t, "config.json", "")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for empty config file")
	}
}

func TestLoadJSONWithoutJSONExtension(t *testing.T) {
	for _, name := range []string{"jokebot.conf", "jokebot"} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, name, `{"schedule": "07:30", "platforms": ["telegram"]}`)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Schedule != "07:30" {
				t.Errorf("Schedule = %v, want 07:30", cfg.Schedule)
			}
			if !slices.Equal(cfg.Platforms, []string{"telegram"}) {
				t.Errorf("Platforms = %v, want [telegram]", cfg.Platforms)
			}
		})
	}
}

func TestLoadYAMLRejected(t *testing.T) {
	path := writeConfig(t, "config.yaml", "schedule: \"07:30\"\nplatforms:\n  - telegram\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected JSON parse error for a YAML file")
	}
}

func TestLoadZeroValuesReplaceDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"schedule": "",
		"platforms": null,
		"digest_count": 0,
		"app": {"log_level": ""}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Schedule != "" {
		t.Errorf("Schedule = %q, want empty", cfg.Schedule)
	}
	if cfg.Platforms != nil {
		t.Errorf("Platforms = %#v, want nil", cfg.Platforms)
	}
	if cfg.DigestCount != 0 {
		t.Errorf("DigestCount = %v, want 0", cfg.DigestCount)
	}
	if cfg.App.LogLevel != "" {
		t.Errorf("App.LogLevel = %q, want empty", cfg.App.LogLevel)
	}
	if cfg.App.Name != "joke-bot" {
		t.Errorf("App.Name = %v, want default joke-bot", cfg.App.Name)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"chinese", "english", "pun", "code"}) {
		t.Errorf("JokeTypes = %v, want defaults", cfg.JokeTypes)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JOKEBOT_SCHEDULE", "18:45")
	t.Setenv("JOKEBOT_JOKE_TYPES", "code,pun")
	t.Setenv("JOKEBOT_APP_LOG_LEVEL", "debug")
	t.Setenv("JOKEBOT_NATS_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Schedule != "18:45" {
		t.Errorf("Schedule = %v, want 18:45", cfg.Schedule)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"code", "pun"}) {
		t.Errorf("JokeTypes = %v, want [code pun]", cfg.JokeTypes)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("App.LogLevel = %v, want debug", cfg.App.LogLevel)
	}
	if !cfg.NATS.Enabled {
		t.Error("NATS.Enabled = false, want true")
	}
}

func TestFileKeysWinOverEnv(t *testing.T) {
	t.Setenv("JOKEBOT_SCHEDULE", "18:45")
	t.Setenv("JOKEBOT_JOKE_TYPES", "code,pun")

	path := writeConfig(t, "config.json", `{"schedule": "09:00"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Schedule != "09:00" {
		t.Errorf("Schedule = %v, want file value 09:00", cfg.Schedule)
	}
	if !slices.Equal(cfg.JokeTypes, []string{"code", "pun"}) {
		t.Errorf("JokeTypes = %v, want env value [code pun]", cfg.JokeTypes)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("JOKEBOT_DIGEST_COUNT", "three")

	if _, err := Load(filepath.Join(t.TempDir(), "config.json")); err == nil {
		t.Error("Expected error for a non-numeric JOKEBOT_DIGEST_COUNT")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := Path(""); got != DefaultPath {
		t.Errorf("Path(\"\") = %v, want %v", got, DefaultPath)
	}

	t.Setenv("CONFIG_PATH", "/etc/joke-bot/config.json")
	if got := Path(""); got != "/etc/joke-bot/config.json" {
		t.Errorf("Path(\"\") = %v, want CONFIG_PATH value", got)
	}
	if got := Path("local.json"); got != "local.json" {
		t.Errorf("Path(local.json) = %v, want local.json", got)
	}
}

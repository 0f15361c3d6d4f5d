package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the user config at a temp dir and runs from another
// temp dir so no real config files are read.
func isolate(t *testing.T) (configHome, workDir string) {
	t.Helper()
	configHome = t.TempDir()
	workDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("JIRA_API_TOKEN", "")
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_EMAIL", "")
	t.Setenv("COPILOT_JWT_SECRET", "")

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return configHome, workDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Planner.PrimaryProject != "Phoenix" {
		t.Errorf("expected primary project Phoenix, got %q", cfg.Planner.PrimaryProject)
	}
	if cfg.Planner.WorkStart != "09:00" || cfg.Planner.WorkEnd != "18:00" {
		t.Errorf("work hours = %s-%s", cfg.Planner.WorkStart, cfg.Planner.WorkEnd)
	}
	if !cfg.Planner.MorningFocus || !cfg.Planner.PreferLongBlocks {
		t.Error("morning focus and long blocks should default on")
	}
	if cfg.Anthropic.MaxTokens != 8192 {
		t.Errorf("max tokens = %d", cfg.Anthropic.MaxTokens)
	}
	if cfg.Tracker.Timeout != 30*time.Second || cfg.Tracker.StoryPointsField != "customfield_10016" {
		t.Errorf("tracker = %+v", cfg.Tracker)
	}
	if cfg.Server.Addr != ":8080" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	configHome, workDir := isolate(t)

	writeFile(t, filepath.Join(configHome, "copilot", "config.yaml"), `
planner:
  primary_project: Atlas
  work_start: "08:00"
tracker:
  url: https://user.atlassian.net
  api_token: from-user-file
`)
	// Project file two levels up from the working directory.
	nested := filepath.Join(workDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(workDir, ProjectConfigName), `
planner:
  primary_project: Zeus
tracker:
  timeout: 5s
`)
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Setenv("JIRA_API_TOKEN", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Planner.PrimaryProject != "Zeus" {
		t.Errorf("project config should win over user config, got %q", cfg.Planner.PrimaryProject)
	}
	if cfg.Planner.WorkStart != "08:00" || cfg.Planner.WorkEnd != "18:00" {
		t.Errorf("work hours = %s-%s", cfg.Planner.WorkStart, cfg.Planner.WorkEnd)
	}
	if cfg.Tracker.URL != "https://user.atlassian.net" || cfg.Tracker.Timeout != 5*time.Second {
		t.Errorf("tracker = %+v", cfg.Tracker)
	}
	if cfg.Tracker.APIToken != "from-env" {
		t.Errorf("environment should win, got %q", cfg.Tracker.APIToken)
	}
	if got := GetProjectConfigPath(); !strings.HasSuffix(got, ProjectConfigName) {
		t.Errorf("project config path = %q", got)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Planner.PrimaryProject != "Phoenix" || cfg.Server.Addr != ":8080" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath(t *testing.T) {
	isolate(t)
	t.Setenv("TEST_SECRET", "expanded-secret-value")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
anthropic:
  api_key: test-key
  use_bedrock: true
planner:
  work_start: "10:00"
  work_end: "16:30"
  morning_focus: false
  timezone: UTC
server:
  jwt_secret: "${TEST_SECRET}"
  allowed_origins: ["https://a.example.com", "https://b.example.com"]
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" || !cfg.Anthropic.UseBedrock {
		t.Errorf("anthropic = %+v", cfg.Anthropic)
	}
	if cfg.Server.JWTSecret != "expanded-secret-value" {
		t.Errorf("jwt secret not expanded: %q", cfg.Server.JWTSecret)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Preferences().MorningFocus {
		t.Error("morning focus should be off")
	}
	wh, err := cfg.WorkHours()
	if err != nil {
		t.Fatalf("WorkHours: %v", err)
	}
	if wh.Start.Hour != 10 || wh.End.Hour != 16 || wh.End.Minute != 30 {
		t.Errorf("work hours = %+v", wh)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("location = %v, %v", loc, err)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed work start", "planner:\n  work_start: nine\n", "work hours"},
		{"end before start", "planner:\n  work_start: \"18:00\"\n  work_end: \"09:00\"\n", "work hours"},
		{"unknown timezone", "planner:\n  timezone: Mars/Olympus\n", "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.content)

			_, err := LoadFromPath(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestSaveAndSetUserValue(t *testing.T) {
	configHome, _ := isolate(t)

	cfg := Default()
	cfg.Planner.PrimaryProject = "Atlas"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if GetUserConfigPath() != filepath.Join(configHome, "copilot", "config.yaml") {
		t.Errorf("user config path = %s", GetUserConfigPath())
	}

	if err := SetUserValue("planner.work_end", "17:00"); err != nil {
		t.Fatalf("SetUserValue: %v", err)
	}
	if err := SetUserValue("server.allowed_origins", "https://a.example.com, https://b.example.com"); err != nil {
		t.Fatalf("SetUserValue origins: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Planner.PrimaryProject != "Atlas" || loaded.Planner.WorkEnd != "17:00" {
		t.Errorf("planner = %+v", loaded.Planner)
	}
	if len(loaded.Server.AllowedOrigins) != 2 || loaded.Server.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("origins = %v", loaded.Server.AllowedOrigins)
	}

	v, err := Value("planner.work_end")
	if err != nil || v != "17:00" {
		t.Errorf("Value = %v, %v", v, err)
	}

	if err := SetUserValue("planner.work_end", "08:00"); err == nil {
		t.Error("expected a validation error for an end before the start")
	}
	if err := SetUserValue("planner.bogus", "x"); err == nil {
		t.Error("expected an error for an unknown key")
	}
	if _, err := Value("bogus"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	for _, want := range []string{"anthropic.api_key", "planner.work_start", "tracker.url", "server.jwt_secret", "logging.path"} {
		if !IsKnownKey(want) {
			t.Errorf("missing key %q in %v", want, keys)
		}
	}
	if !IsSecret("tracker.api_token") || IsSecret("tracker.url") {
		t.Error("secret classification wrong")
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := getUserConfigDir(); got != filepath.Join("/tmp/xdg", "copilot") {
		t.Errorf("getUserConfigDir() = %q", got)
	}
}

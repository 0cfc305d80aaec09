package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LogLevel != "info" {
		t.Fatalf("default log level %q", cfg.LogLevel)
	}
	if cfg.AppIDPrefix != "hyprcanvas" {
		t.Fatalf("default appid prefix %q", cfg.AppIDPrefix)
	}
	if cfg.SocketPath != "" {
		t.Fatalf("default socket path should be empty, got %q", cfg.SocketPath)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("missing file changed config: %+v", cfg)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("empty file changed config: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "log_level: debug\nsocket_path: /tmp/hypr/x/.socket.sock\nappid_prefix: ueber\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level %q", cfg.LogLevel)
	}
	if cfg.SocketPath != "/tmp/hypr/x/.socket.sock" {
		t.Fatalf("socket path %q", cfg.SocketPath)
	}
	if cfg.AppIDPrefix != "ueber" {
		t.Fatalf("appid prefix %q", cfg.AppIDPrefix)
	}
	if cfg.LogFile != "" {
		t.Fatalf("log file should stay empty, got %q", cfg.LogFile)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_lvl: debug\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPathPrefersXDGConfigHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	want := filepath.Join(tmp, "hyprcanvas", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("default path %q, want %q", got, want)
	}
}

func TestDefaultPathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	got := DefaultPath()
	if got == "" {
		t.Skip("no home directory in test environment")
	}
	if !strings.HasSuffix(got, filepath.Join(".config", "hyprcanvas", "config.yaml")) {
		t.Fatalf("default path %q", got)
	}
}

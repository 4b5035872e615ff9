package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Target != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
[practice]
target = 10
microphone = false

[analysis]
threshold = 15.5
trailing-silence = true
live-volume = "mean"

[content]
topics = "/tmp/topics.txt"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Target == nil || *cfg.Practice.Target != 10 {
		t.Fatalf("expected target 10")
	}
	if cfg.Practice.Microphone == nil || *cfg.Practice.Microphone {
		t.Fatalf("expected microphone=false")
	}
	if cfg.Analysis.Threshold == nil || *cfg.Analysis.Threshold != 15.5 {
		t.Fatalf("expected threshold 15.5")
	}
	if cfg.Analysis.TrailingSilence == nil || !*cfg.Analysis.TrailingSilence {
		t.Fatalf("expected trailing-silence=true")
	}
	if cfg.Analysis.LiveVolume == nil || *cfg.Analysis.LiveVolume != "mean" {
		t.Fatalf("expected live-volume=mean")
	}
	if cfg.Content.Topics == nil || cfg.Content.Catalog != nil {
		t.Fatalf("unexpected content config %+v", cfg.Content)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" || cfg.Log.File != nil {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "podium", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "podium", "podium.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "podium", "podium.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/config"
)

func setupHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("podium %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestValidateConfig(t *testing.T) {
	newRootCmd()
	if err := validateConfig(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	for _, bad := range []float64{0, -1, 100} {
		analysisThreshold = bad
		if err := validateConfig(); err == nil || !strings.Contains(err.Error(), "--threshold") {
			t.Fatalf("threshold %.0f: expected threshold error, got %v", bad, err)
		}
	}
	analysisThreshold = 12

	analysisLiveVolume = "peak"
	if err := validateConfig(); err == nil || !strings.Contains(err.Error(), "--live-volume") {
		t.Fatalf("expected live-volume error, got %v", err)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	setupHome(t)
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "[practice]\ntarget = 10\nmicrophone = false\n\n[analysis]\nthreshold = 20.0\nlive-volume = \"mean\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	if err := root.ParseFlags([]string{"--threshold", "15"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if err := loadSettings(root); err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if practiceTarget != 10 || !practiceNoMic {
		t.Fatalf("expected config target and mic, got %d and %v", practiceTarget, practiceNoMic)
	}
	if analysisThreshold != 15 {
		t.Fatalf("expected flag to win, got %.1f", analysisThreshold)
	}
	if analysisLiveVolume != "mean" {
		t.Fatalf("expected mean live volume, got %q", analysisLiveVolume)
	}
}

func TestDefaultConfigTemplateIsValid(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should parse: %v", err)
	}
	if cfg.Practice.Target != nil || cfg.Analysis.Threshold != nil {
		t.Fatalf("template values should all be commented out")
	}
	if !strings.Contains(defaultConfigTemplate(), "[analysis]") {
		t.Fatalf("template is missing the analysis table")
	}
}

func TestValidateTipFilter(t *testing.T) {
	cat := catalog.Default()
	if err := validateTipFilter(cat, "voice", "advanced"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateTipFilter(cat, "posture", catalog.All); err == nil {
		t.Fatalf("expected unknown category error")
	}
	if err := validateTipFilter(cat, catalog.All, "expert"); err == nil {
		t.Fatalf("expected unknown difficulty error")
	}
}

func TestTipsToggleAndProgressCommands(t *testing.T) {
	setupHome(t)

	out := execute(t, "tips", "--log-file", "", "--category", "structure", "--difficulty", "beginner")
	if !strings.Contains(out, "[ ] rule-of-three") {
		t.Fatalf("expected open tip in list:\n%s", out)
	}

	out = execute(t, "tips", "toggle", "rule-of-three", "--log-file", "")
	if !strings.HasPrefix(out, "Build around three points: done (1 of ") {
		t.Fatalf("unexpected toggle output %q", out)
	}

	out = execute(t, "tips", "--log-file", "", "--category", "structure", "--difficulty", "beginner")
	if !strings.Contains(out, "[x] rule-of-three") {
		t.Fatalf("expected completed tip in list:\n%s", out)
	}

	out = execute(t, "progress", "--log-file", "")
	if !strings.Contains(out, "Summary") || !strings.Contains(out, "Tips completed") {
		t.Fatalf("unexpected progress output:\n%s", out)
	}

	out = execute(t, "history", "--log-file", "")
	if strings.TrimSpace(out) != "No sessions found." {
		t.Fatalf("unexpected history output %q", out)
	}
}

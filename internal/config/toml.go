// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Analysis AnalysisConfig `toml:"analysis"`
	Content  ContentConfig  `toml:"content"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Target     *int    `toml:"target"`
	Topic      *string `toml:"topic"`
	Microphone *bool   `toml:"microphone"`
}

// AnalysisConfig maps audio analysis settings.
type AnalysisConfig struct {
	Threshold       *float64 `toml:"threshold"`
	TrailingSilence *bool    `toml:"trailing-silence"`
	LiveVolume      *string  `toml:"live-volume"`
}

// ContentConfig points at user-supplied content files.
type ContentConfig struct {
	Catalog *string `toml:"catalog"`
	Topics  *string `toml:"topics"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

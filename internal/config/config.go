// Package config holds the user-facing settings consumed by the engine and
// the CLI. Settings live in a single YAML file; a missing file means
// defaults, and every loaded file is validated against an embedded CUE
// schema before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the persisted configuration. All durations are whole
// minutes; the engine recomputes seconds as minutes*60 and only reads the
// three duration fields. The remaining fields belong to outer layers
// (auto-advance policy, notification delivery).
type Settings struct {
	WorkDuration         int  `yaml:"workDuration" json:"workDuration"`
	ShortBreakDuration   int  `yaml:"shortBreakDuration" json:"shortBreakDuration"`
	LongBreakDuration    int  `yaml:"longBreakDuration" json:"longBreakDuration"`
	LongBreakInterval    int  `yaml:"longBreakInterval" json:"longBreakInterval"`
	AutoStartBreaks      bool `yaml:"autoStartBreaks" json:"autoStartBreaks"`
	AutoStartWork        bool `yaml:"autoStartWork" json:"autoStartWork"`
	SoundEnabled         bool `yaml:"soundEnabled" json:"soundEnabled"`
	NotificationsEnabled bool `yaml:"notificationsEnabled" json:"notificationsEnabled"`
}

// Default returns the stock pomodoro settings: 25/5/15 minutes with a long
// break every 4th work cycle.
func Default() Settings {
	return Settings{
		WorkDuration:         25,
		ShortBreakDuration:   5,
		LongBreakDuration:    15,
		LongBreakInterval:    4,
		AutoStartBreaks:      false,
		AutoStartWork:        false,
		SoundEnabled:         true,
		NotificationsEnabled: true,
	}
}

// Load reads settings from path. A missing file yields Default() with no
// error; anything present must parse as YAML and pass schema validation.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes settings to path as YAML. The settings are validated first
// so a bad in-memory value never reaches disk.
func Save(path string, settings Settings) error {
	if err := Validate(settings); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

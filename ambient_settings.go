// ambient_settings.go - Persisted player settings (YAML)

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DEFAULT_SETTINGS_FILE = "ambient.yaml"

// Settings are the remembered control values plus a few engine knobs.
type Settings struct {
	Tone        float64 `yaml:"tone"`
	Duration    string  `yaml:"duration"`
	ExportDir   string  `yaml:"export_dir"`
	ExportMIDI  bool    `yaml:"export_midi"`
	TickMS      int     `yaml:"tick_ms"`
	LookAheadMS int     `yaml:"look_ahead_ms"`
	LogDir      string  `yaml:"log_dir,omitempty"`
	Debug       bool    `yaml:"debug"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Tone:        BASE_FREQ_DEFAULT,
		Duration:    durationTokens[0],
		ExportDir:   ".",
		TickMS:      LIVE_TICK_MS,
		LookAheadMS: int(LIVE_LOOK_AHEAD * 1000),
	}
}

// LoadSettings reads path over the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// LoadSettingsOrDefault returns the defaults when path is empty or missing.
func LoadSettingsOrDefault(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	return LoadSettings(path)
}

func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Normalize applies the session clamping rules and sane engine timing.
// Every adjustment is returned as a warning; the settings stay usable.
func (s *Settings) Normalize() []error {
	var warnings []error
	tone, err := ClampBaseFrequency(s.Tone)
	if err != nil {
		warnings = append(warnings, err)
	}
	s.Tone = tone

	policy, err := ParseDurationPolicy(s.Duration)
	if err != nil {
		warnings = append(warnings, err)
	}
	s.Duration = policy.Token

	if s.TickMS <= 0 {
		warnings = append(warnings, fmt.Errorf("%w: tick_ms %d, using %d", ErrInvalidConfiguration, s.TickMS, LIVE_TICK_MS))
		s.TickMS = LIVE_TICK_MS
	}
	// The window must cover at least one tick or notes arrive late.
	if s.LookAheadMS < s.TickMS {
		warnings = append(warnings, fmt.Errorf("%w: look_ahead_ms %d shorter than tick", ErrInvalidConfiguration, s.LookAheadMS))
		s.LookAheadMS = max(s.TickMS*5, int(LIVE_LOOK_AHEAD*1000))
	}
	if s.ExportDir == "" {
		s.ExportDir = "."
	}
	return warnings
}

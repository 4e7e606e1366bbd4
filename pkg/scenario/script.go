package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a script.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Script is a scripted simulation.
type Script struct {
	Name   string        `mapstructure:"name"`
	Period time.Duration `mapstructure:"period"`
	// Scoring overrides fields of scoring.DefaultConfig by their
	// mapstructure names.
	Scoring map[string]any `mapstructure:"scoring"`
	Steps   []Step         `mapstructure:"steps"`
}

// Step is one entry of a script. Zero fields are skipped.
type Step struct {
	Note    string          `mapstructure:"note"`
	Set     map[string]bool `mapstructure:"set"`
	Pulse   []string        `mapstructure:"pulse"`
	Advance time.Duration   `mapstructure:"advance"`
	Tick    int             `mapstructure:"tick"`
	Wait    time.Duration   `mapstructure:"wait"`
	Expect  map[string]bool `mapstructure:"expect"`
}

// Label returns the note, or the 1-based position when there is none.
func (s Step) Label(i int) string {
	if s.Note != "" {
		return fmt.Sprintf("step %d (%s)", i+1, s.Note)
	}
	return fmt.Sprintf("step %d", i+1)
}

// Load reads a script, choosing the format from the file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// FormatOf maps a file extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported scenario extension %q", filepath.Ext(path))
	}
}

// Parse decodes a script.
func Parse(data []byte, format Format) (*Script, error) {
	raw := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}

	var s Script
	if err := decode(raw, &s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	for i, step := range s.Steps {
		if step.Tick < 0 || step.Advance < 0 || step.Wait < 0 {
			return nil, fmt.Errorf("%s: negative tick count or duration", step.Label(i))
		}
	}
	return &s, nil
}

// Config returns scoring.DefaultConfig with the script overrides applied.
func (s *Script) Config() (scoring.Config, error) {
	cfg := scoring.DefaultConfig()
	if len(s.Scoring) == 0 {
		return cfg, nil
	}
	if err := decode(s.Scoring, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid scoring overrides: %w", err)
	}
	return cfg, nil
}

// decode maps loosely typed input onto out. Durations may be written as
// strings ("20ms"); unknown keys are rejected.
func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

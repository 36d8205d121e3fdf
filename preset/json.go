package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/synth"
)

const (
	DefaultSampleRate = synth.DefaultSampleRate
	DefaultBufferMs   = 40
)

// File is the JSON schema for keyboard presets. Absent fields keep defaults.
type File struct {
	SampleRate    *int     `json:"sample_rate,omitempty"`
	BufferMs      *int     `json:"buffer_ms,omitempty"`
	Waveform      string   `json:"waveform,omitempty"`
	AttackS       *float64 `json:"attack_s,omitempty"`
	Peak          *float64 `json:"peak,omitempty"`
	DecayS        *float64 `json:"decay_s,omitempty"`
	Floor         *float64 `json:"floor,omitempty"`
	OutputGain    *float64 `json:"output_gain,omitempty"`
	Transpose     *float64 `json:"transpose_semitones,omitempty"`
	VisualResetMs *int     `json:"visual_reset_ms,omitempty"`
	ResetPolicy   string   `json:"reset_policy,omitempty"`
}

// Settings is a fully resolved preset.
type Settings struct {
	Synth       synth.Params
	SampleRate  int
	BufferMs    int
	VisualReset time.Duration
	ResetPolicy keyboard.ResetPolicy
}

// NewDefaultSettings returns the reference configuration.
func NewDefaultSettings() *Settings {
	return &Settings{
		Synth:       *synth.NewDefaultParams(),
		SampleRate:  DefaultSampleRate,
		BufferMs:    DefaultBufferMs,
		VisualReset: keyboard.DefaultResetAfter,
		ResetPolicy: keyboard.ResetUnconditional,
	}
}

// BufferSize returns the device buffer length.
func (s *Settings) BufferSize() time.Duration {
	return time.Duration(s.BufferMs) * time.Millisecond
}

// LoadJSON loads a preset JSON file and applies it on top of default settings.
// A relative path is resolved against the working directory.
func LoadJSON(path string) (*Settings, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	s := NewDefaultSettings()
	if err := ApplyFile(s, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ApplyFile applies a parsed preset file onto existing settings. Envelope
// fields are validated together after all overrides are applied.
func ApplyFile(dst *Settings, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination settings")
	}
	if f == nil {
		return nil
	}

	if f.SampleRate != nil {
		if *f.SampleRate < 8000 || *f.SampleRate > 192000 {
			return fmt.Errorf("sample_rate must be in [8000,192000]")
		}
		dst.SampleRate = *f.SampleRate
	}
	if f.BufferMs != nil {
		if *f.BufferMs <= 0 || *f.BufferMs > 1000 {
			return fmt.Errorf("buffer_ms must be in (0,1000]")
		}
		dst.BufferMs = *f.BufferMs
	}
	if name := strings.TrimSpace(f.Waveform); name != "" {
		w, err := synth.ParseWaveform(name)
		if err != nil {
			return err
		}
		dst.Synth.Waveform = w
	}
	if f.AttackS != nil {
		dst.Synth.Attack = *f.AttackS
	}
	if f.Peak != nil {
		dst.Synth.Peak = *f.Peak
	}
	if f.DecayS != nil {
		dst.Synth.Decay = *f.DecayS
	}
	if f.Floor != nil {
		dst.Synth.Floor = *f.Floor
	}
	if f.OutputGain != nil {
		dst.Synth.OutputGain = *f.OutputGain
	}
	if f.Transpose != nil {
		dst.Synth.Transpose = *f.Transpose
	}
	if f.VisualResetMs != nil {
		if *f.VisualResetMs <= 0 {
			return fmt.Errorf("visual_reset_ms must be > 0")
		}
		dst.VisualReset = time.Duration(*f.VisualResetMs) * time.Millisecond
	}
	if f.ResetPolicy != "" {
		p, err := keyboard.ParseResetPolicy(f.ResetPolicy)
		if err != nil {
			return err
		}
		dst.ResetPolicy = p
	}
	return dst.Synth.Validate()
}

// ToFile converts settings into a fully populated preset file.
func ToFile(s *Settings) *File {
	sr := s.SampleRate
	buf := s.BufferMs
	attack := s.Synth.Attack
	peak := s.Synth.Peak
	decay := s.Synth.Decay
	floor := s.Synth.Floor
	gain := s.Synth.OutputGain
	transpose := s.Synth.Transpose
	reset := int(s.VisualReset / time.Millisecond)
	return &File{
		SampleRate:    &sr,
		BufferMs:      &buf,
		Waveform:      s.Synth.Waveform.String(),
		AttackS:       &attack,
		Peak:          &peak,
		DecayS:        &decay,
		Floor:         &floor,
		OutputGain:    &gain,
		Transpose:     &transpose,
		VisualResetMs: &reset,
		ResetPolicy:   s.ResetPolicy.String(),
	}
}

// SaveJSON writes settings as an indented preset file.
func SaveJSON(path string, s *Settings) error {
	if s == nil {
		return fmt.Errorf("nil settings")
	}
	b, err := json.MarshalIndent(ToFile(s), "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

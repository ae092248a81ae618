package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-wavetable/synth"
	"github.com/cwbudde/algo-wavetable/wavetable"
)

// Settings holds engine and render settings.
type Settings struct {
	SampleRate       int
	TableLength      int
	Channels         int
	BlockSize        int
	ReferencePitch   float32
	BitDepth         int
	OutputSampleRate int // 0 = SampleRate
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() *Settings {
	return &Settings{
		SampleRate:       48000,
		TableLength:      wavetable.DefaultLength,
		Channels:         2,
		BlockSize:        128,
		ReferencePitch:   440.0,
		BitDepth:         16,
		OutputSampleRate: 0,
	}
}

// SynthParams returns the engine parameters for these settings.
func (s *Settings) SynthParams() *synth.Params {
	return &synth.Params{
		TableLength:    s.TableLength,
		ReferencePitch: s.ReferencePitch,
	}
}

// OutputRate returns the rate audio is written at.
func (s *Settings) OutputRate() int {
	if s.OutputSampleRate > 0 {
		return s.OutputSampleRate
	}
	return s.SampleRate
}

// File is the JSON schema for settings presets.
type File struct {
	SampleRate       *int     `json:"sample_rate"`
	TableLength      *int     `json:"table_length"`
	Channels         *int     `json:"channels"`
	BlockSize        *int     `json:"block_size"`
	ReferencePitch   *float32 `json:"reference_pitch"`
	BitDepth         *int     `json:"bit_depth"`
	OutputSampleRate *int     `json:"output_sample_rate"`
}

// LoadJSON loads a preset JSON file and applies it on top of default settings.
func LoadJSON(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	s := DefaultSettings()
	if err := ApplyFile(s, &f); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyFile applies a parsed preset file onto existing settings.
func ApplyFile(dst *Settings, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination settings")
	}
	if f == nil {
		return nil
	}

	if f.SampleRate != nil {
		if *f.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be > 0")
		}
		dst.SampleRate = *f.SampleRate
	}
	if f.TableLength != nil {
		if *f.TableLength <= 0 {
			return fmt.Errorf("table_length must be > 0")
		}
		dst.TableLength = *f.TableLength
	}
	if f.Channels != nil {
		if *f.Channels < 1 {
			return fmt.Errorf("channels must be >= 1")
		}
		dst.Channels = *f.Channels
	}
	if f.BlockSize != nil {
		if *f.BlockSize <= 0 {
			return fmt.Errorf("block_size must be > 0")
		}
		dst.BlockSize = *f.BlockSize
	}
	if f.ReferencePitch != nil {
		if *f.ReferencePitch <= 0 {
			return fmt.Errorf("reference_pitch must be > 0")
		}
		dst.ReferencePitch = *f.ReferencePitch
	}
	if f.BitDepth != nil {
		switch *f.BitDepth {
		case 8, 16, 24, 32:
		default:
			return fmt.Errorf("bit_depth must be one of 8, 16, 24, 32")
		}
		dst.BitDepth = *f.BitDepth
	}
	if f.OutputSampleRate != nil {
		if *f.OutputSampleRate < 0 {
			return fmt.Errorf("output_sample_rate must be >= 0")
		}
		dst.OutputSampleRate = *f.OutputSampleRate
	}
	return nil
}

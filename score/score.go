// Package score describes timed notes in seconds and turns them into
// block-relative synth events.
package score

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-wavetable/synth"
)

// Note is one held note. Frequency is optional; zero means the engine's
// tuning for Note.
type Note struct {
	Note      int     `json:"note"`
	Start     float64 `json:"start"`
	Duration  float64 `json:"duration"`
	Frequency float32 `json:"frequency,omitempty"`
}

// Score is the JSON schema for score files.
type Score struct {
	Notes []Note `json:"notes"`
	// AllNotesOff optionally silences every voice at this time in seconds.
	AllNotesOff *float64 `json:"all_notes_off,omitempty"`
}

// Load reads and validates a score JSON file.
func Load(path string) (*Score, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a score.
func Parse(data []byte) (*Score, error) {
	var s Score
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SingleNote returns a score holding note from time 0 for hold seconds.
func SingleNote(note int, hold float64) *Score {
	return &Score{Notes: []Note{{Note: note, Start: 0, Duration: hold}}}
}

// Validate checks note ranges and times.
func (s *Score) Validate() error {
	for i, n := range s.Notes {
		if n.Note < 0 || n.Note >= synth.NumVoices {
			return fmt.Errorf("notes[%d].note must be in 0..%d", i, synth.NumVoices-1)
		}
		if !finite(n.Start) || n.Start < 0 {
			return fmt.Errorf("notes[%d].start must be >= 0", i)
		}
		if !finite(n.Duration) || n.Duration <= 0 {
			return fmt.Errorf("notes[%d].duration must be > 0", i)
		}
		if n.Frequency < 0 || !finite(float64(n.Frequency)) {
			return fmt.Errorf("notes[%d].frequency must be >= 0", i)
		}
	}
	if s.AllNotesOff != nil && (!finite(*s.AllNotesOff) || *s.AllNotesOff < 0) {
		return fmt.Errorf("all_notes_off must be >= 0")
	}
	return nil
}

// Duration returns the time of the last event in seconds.
func (s *Score) Duration() float64 {
	var end float64
	for _, n := range s.Notes {
		end = math.Max(end, n.Start+n.Duration)
	}
	if s.AllNotesOff != nil {
		end = math.Max(end, *s.AllNotesOff)
	}
	return end
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

package synth

import (
	"fmt"
	"math"
	"testing"
)

func TestNoteToFrequency(t *testing.T) {
	tests := []struct {
		note int
		want float64
	}{
		{69, 440.0},
		{60, 261.63},
		{57, 220.0},
		{81, 880.0},
		{64, 329.63},
		{72, 523.25},
		{48, 130.81},
		{21, 27.5},
		{108, 4186.01},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("Note%d", tt.note), func(t *testing.T) {
			got := float64(NoteToFrequency(tt.note))
			if math.Abs(got-tt.want) > tt.want*0.005 {
				t.Fatalf("note %d: got=%.3f want=%.3f", tt.note, got, tt.want)
			}
		})
	}
}

func TestNoteToFrequencyOctaves(t *testing.T) {
	for n := 24; n+12 <= 108; n += 7 {
		lo := float64(NoteToFrequency(n))
		hi := float64(NoteToFrequency(n + 12))
		if r := hi / lo; math.Abs(r-2) > 0.01 {
			t.Fatalf("octave ratio %d->%d = %f", n, n+12, r)
		}
	}
}

func TestEventKindString(t *testing.T) {
	if NoteOn.String() != "note-on" || NoteOff.String() != "note-off" || AllNotesOff.String() != "all-notes-off" {
		t.Fatalf("unexpected kind names")
	}
	if EventKind(0).String() != "EventKind(0)" {
		t.Fatalf("unexpected unknown kind name: %s", EventKind(0))
	}
}

package synth

import "github.com/cwbudde/algo-wavetable/wavetable"

// NumVoices is the number of addressable note identities (MIDI 0..127).
const NumVoices = 128

// Params holds engine settings fixed at construction time.
type Params struct {
	// TableLength is the number of samples in the shared sine table.
	TableLength int
	// ReferencePitch is the frequency of note 69 used when a NoteOn event
	// carries no frequency.
	ReferencePitch float32
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		TableLength:    wavetable.DefaultLength,
		ReferencePitch: 440.0,
	}
}

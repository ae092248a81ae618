package synth

import "github.com/cwbudde/algo-approx"

const (
	a4Freq = 440.0
	a4Note = 69
)

// NoteToFrequency converts a MIDI note number to frequency in Hz
// (12-TET, note 69 = 440 Hz).
func NoteToFrequency(note int) float32 {
	return noteToFreq(note, a4Freq)
}

func noteToFreq(note int, reference float32) float32 {
	exponent := float32(note-a4Note) / 12.0
	return reference * pow2Approx(exponent)
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

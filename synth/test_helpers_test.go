package synth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-wavetable/wavetable"
)

func newPreparedSynth(t *testing.T, sampleRate float64) *Synth {
	t.Helper()
	s := NewSynth(NewDefaultParams())
	s.Prepare(sampleRate)
	if !s.Prepared() {
		t.Fatalf("synth not prepared at %f Hz", sampleRate)
	}
	return s
}

// renderVoice plays a lone oscillator for n samples from phase 0.
func renderVoice(sampleRate float64, freq float32, n int) []float32 {
	o := wavetable.NewOscillator(wavetable.GenerateSine(wavetable.DefaultLength), sampleRate)
	o.SetFrequency(freq)
	out := make([]float32, n)
	o.Process(out)
	return out
}

func isSilent(samples []float32) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

func peakAbs(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	return peak
}

func assertBitIdentical(t *testing.T, label string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch got=%d want=%d", label, len(got), len(want))
	}
	for i := range got {
		if math.Float32bits(got[i]) != math.Float32bits(want[i]) {
			t.Fatalf("%s: sample %d differs got=%v want=%v", label, i, got[i], want[i])
		}
	}
}

func countRisingZeroCrossings(samples []float32) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < 0 && samples[i] >= 0 {
			n++
		}
	}
	return n
}

package wavetable

import "math"

// Oscillator plays back a shared Table at a settable frequency.
//
// Phase is a fractional table index kept in [0, table length). Changing the
// frequency never resets it, so pitch changes and retriggers are
// phase-continuous. Phase is accumulated in float32 and drifts slowly over
// very long playback; this is accepted and not corrected.
type Oscillator struct {
	table          Table
	tableLen       float32
	sampleRate     float32
	index          float32
	indexIncrement float32
	playing        bool
}

// NewOscillator returns an oscillator reading from table at sampleRate.
// The table is referenced, not copied. An empty table or a non-positive
// sample rate yields an inert oscillator that ignores SetFrequency.
func NewOscillator(table Table, sampleRate float64) Oscillator {
	o := Oscillator{}
	if len(table) == 0 || !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return o
	}
	o.table = table
	o.tableLen = float32(len(table))
	o.sampleRate = float32(sampleRate)
	return o
}

// SetFrequency sets the playback frequency in Hz and starts the oscillator.
// Non-positive or non-finite frequencies are ignored.
func (o *Oscillator) SetFrequency(frequency float32) {
	if o.sampleRate <= 0 || !isFinite(frequency) || frequency <= 0 {
		return
	}
	o.indexIncrement = frequency * o.tableLen / o.sampleRate
	o.playing = true
}

// Stop marks the oscillator silent. Phase and increment are kept.
func (o *Oscillator) Stop() {
	o.playing = false
}

// IsPlaying reports whether a frequency has been set since the last Stop.
func (o *Oscillator) IsPlaying() bool {
	return o.playing
}

// Phase returns the current fractional table index.
func (o *Oscillator) Phase() float32 {
	return o.index
}

// Increment returns the per-sample phase step.
func (o *Oscillator) Increment() float32 {
	return o.indexIncrement
}

// Sample returns the interpolated value at the current phase and advances
// the phase by one step. A stopped oscillator returns 0 and keeps its state.
func (o *Oscillator) Sample() float32 {
	if !o.playing {
		return 0
	}
	s := o.table.At(o.index)
	o.index = wrap(o.index+o.indexIncrement, o.tableLen)
	return s
}

// Process adds len(dst) consecutive samples into dst.
func (o *Oscillator) Process(dst []float32) {
	if !o.playing {
		return
	}
	for i := range dst {
		dst[i] += o.Sample()
	}
}

func wrap(x, n float32) float32 {
	if x >= 0 && x < n {
		return x
	}
	x = float32(math.Mod(float64(x), float64(n)))
	if x < 0 {
		x += n
	}
	// float32 rounding can land exactly on n.
	if x >= n {
		x = 0
	}
	return x
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

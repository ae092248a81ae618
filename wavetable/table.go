// Package wavetable provides single-cycle waveform tables and the
// interpolating oscillator that plays them back.
package wavetable

import "math"

// DefaultLength is the number of samples in a generated table.
const DefaultLength = 64

// Table holds exactly one cycle of a periodic waveform with values in [-1, 1].
// A Table is never mutated after generation and may be shared by any number
// of oscillators.
type Table []float32

// GenerateSine returns one cycle of a sine wave sampled at length points.
// It returns nil for length <= 0.
func GenerateSine(length int) Table {
	if length <= 0 {
		return nil
	}
	t := make(Table, length)
	for i := range t {
		t[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(length)))
	}
	return t
}

// Len returns the number of samples in one cycle.
func (t Table) Len() int {
	return len(t)
}

// At returns the linearly interpolated value at a fractional position in
// [0, Len()). The segment after the last sample wraps back to the first one.
func (t Table) At(pos float32) float32 {
	n := len(t)
	if n == 0 {
		return 0
	}
	i := int(pos)
	if pos < 0 || i >= n {
		i = 0
		pos = 0
	}
	frac := pos - float32(i)
	next := i + 1
	if next == n {
		next = 0
	}
	return t[i] + frac*(t[next]-t[i])
}

package analysis

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

var (
	// ErrTooShort is returned when the signal holds less than two periods of
	// the lowest searched frequency.
	ErrTooShort = errors.New("analysis: signal too short for pitch range")
	// ErrNoPitch is returned for silent or aperiodic input.
	ErrNoPitch = errors.New("analysis: no periodicity found")
)

// DetectPitch estimates the fundamental frequency of samples in Hz by
// autocorrelation, searching periods between sampleRate/maxHz and
// sampleRate/minHz.
func DetectPitch(samples []float32, sampleRate int, minHz, maxHz float64) (float64, error) {
	if sampleRate <= 0 || !(minHz > 0) || !(maxHz > minHz) {
		return 0, fmt.Errorf("analysis: invalid pitch range %.2f..%.2f Hz at %d Hz", minHz, maxHz, sampleRate)
	}
	n := len(samples)
	maxLag := int(float64(sampleRate) / minHz)
	minLag := int(float64(sampleRate) / maxHz)
	if minLag < 1 {
		minLag = 1
	}
	if n < 2*maxLag+1 {
		return 0, ErrTooShort
	}

	r, err := autocorrelate(samples)
	if err != nil {
		return 0, err
	}
	if !(r[0] > 0) {
		return 0, ErrNoPitch
	}

	// Skip the zero-lag lobe before looking for the first period peak.
	start := 1
	for start < maxLag && r[start] > 0 {
		start++
	}
	if start < minLag {
		start = minLag
	}
	best := -1
	for k := start; k <= maxLag && k < n-1; k++ {
		if best < 0 || r[k] > r[best] {
			best = k
		}
	}
	if best < 1 || r[best] <= 0 {
		return 0, ErrNoPitch
	}

	lag := float64(best)
	if best+1 < n {
		a, b, c := r[best-1], r[best], r[best+1]
		if den := a - 2*b + c; den != 0 {
			lag += 0.5 * (a - c) / den
		}
	}
	f := float64(sampleRate) / lag
	if !isFinite(f) {
		return 0, ErrNoPitch
	}
	return f, nil
}

// autocorrelate returns r[k] = sum x[i]*x[i+k] for k >= 0.
func autocorrelate(x []float32) ([]float64, error) {
	n := len(x)
	rev := make([]float32, n)
	for i, v := range x {
		rev[n-1-i] = v
	}
	full := make([]float32, 2*n-1)
	if err := algofft.ConvolveReal(full, x, rev); err != nil {
		return nil, fmt.Errorf("analysis: autocorrelation: %w", err)
	}
	r := make([]float64, n)
	for k := range r {
		r[k] = float64(full[n-1+k])
	}
	return r, nil
}

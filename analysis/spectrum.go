package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Band is a frequency range for band level reports.
type Band struct {
	Name string
	LoHz float64
	HiHz float64
}

// DefaultBands splits the audible range into seven octave-ish bands.
var DefaultBands = []Band{
	{"sub-bass (20-100Hz)", 20, 100},
	{"bass (100-300Hz)", 100, 300},
	{"low-mid (300-1kHz)", 300, 1000},
	{"mid (1-3kHz)", 1000, 3000},
	{"hi-mid (3-6kHz)", 3000, 6000},
	{"high (6-12kHz)", 6000, 12000},
	{"air (12-20kHz)", 12000, 20000},
}

// Spectrum is a Hann-windowed STFT magnitude averaged over all frames.
type Spectrum struct {
	Magnitude []float64 // bins 0..FFTSize/2-1
	BinHz     float64
	FFTSize   int
	Frames    int
}

// AverageSpectrum computes the mean magnitude spectrum of samples using
// half-overlapping frames of fftSize. Input shorter than one frame is
// zero padded.
func AverageSpectrum(samples []float32, sampleRate, fftSize int) (*Spectrum, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("analysis: sample rate must be > 0")
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analysis: fft size %d must be a power of two", fftSize)
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft plan: %w", err)
	}

	hop := fftSize / 2
	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}
	nBins := fftSize / 2
	bins := make([]complex128, nBins+1)
	frame := make([]float64, fftSize)
	avg := make([]float64, nBins)

	frames := 0
	for pos := 0; pos == 0 || pos+fftSize <= len(samples); pos += hop {
		clear(frame)
		for i := 0; i < fftSize && pos+i < len(samples); i++ {
			frame[i] = float64(samples[pos+i]) * hann[i]
		}
		plan.Forward(bins, frame)
		for k := 0; k < nBins; k++ {
			avg[k] += cmplx.Abs(bins[k])
		}
		frames++
	}

	scale := 1.0 / float64(frames)
	for k := range avg {
		avg[k] *= scale
	}
	return &Spectrum{
		Magnitude: avg,
		BinHz:     float64(sampleRate) / float64(fftSize),
		FFTSize:   fftSize,
		Frames:    frames,
	}, nil
}

// PeakHz returns the centre frequency of the strongest non-DC bin.
func (s *Spectrum) PeakHz() float64 {
	best := 1
	for k := 1; k < len(s.Magnitude); k++ {
		if s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	return float64(best) * s.BinHz
}

// BandLevel is the mean power of one band in dB.
type BandLevel struct {
	Band
	DB float64
}

// BandLevels returns the mean bin power per band. Bands outside the
// spectrum are skipped.
func (s *Spectrum) BandLevels(bands []Band) []BandLevel {
	nBins := len(s.Magnitude)
	out := make([]BandLevel, 0, len(bands))
	for _, b := range bands {
		loK := int(b.LoHz / s.BinHz)
		hiK := int(b.HiHz / s.BinHz)
		if loK < 1 {
			loK = 1
		}
		if hiK >= nBins {
			hiK = nBins - 1
		}
		if loK > hiK {
			continue
		}
		var pow float64
		for k := loK; k <= hiK; k++ {
			pow += s.Magnitude[k] * s.Magnitude[k]
		}
		cnt := float64(hiK - loK + 1)
		out = append(out, BandLevel{Band: b, DB: 10 * math.Log10(math.Max(pow/cnt, 1e-24))})
	}
	return out
}

package wavio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ReadWAV returns the interleaved samples of a WAV file with its format.
// Integer PCM is scaled to [-1, 1].
func ReadWAV(path string) ([]float32, *audio.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, nil, fmt.Errorf("invalid wav buffer: %s", path)
	}
	out := make([]float32, len(buf.Data))
	var peak float64
	for i, v := range buf.Data {
		out[i] = float32(v)
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if peak > 1 && buf.SourceBitDepth > 1 {
		scale := 1 / float32(int64(1)<<(buf.SourceBitDepth-1))
		for i := range out {
			out[i] *= scale
		}
	}
	return out, buf.Format, nil
}

// WriteWAV writes interleaved PCM samples to path, creating parent
// directories as needed.
func WriteWAV(path string, samples []float32, sampleRate, numChannels, bitDepth int) error {
	if numChannels < 1 {
		return fmt.Errorf("channels must be >= 1")
	}
	if len(samples)%numChannels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), numChannels)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChannels, 1)

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: numChannels,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// Resample converts interleaved audio from fromRate to toRate, one channel
// at a time. Equal rates return the input unchanged.
func Resample(interleaved []float32, numChannels, fromRate, toRate int) ([]float32, error) {
	if fromRate == toRate {
		return interleaved, nil
	}
	if numChannels < 1 || fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid resample request: %d channels %d->%d Hz", numChannels, fromRate, toRate)
	}
	frames := len(interleaved) / numChannels
	var out []float32
	outFrames := -1
	for ch := 0; ch < numChannels; ch++ {
		in := make([]float64, frames)
		for i := 0; i < frames; i++ {
			in[i] = float64(interleaved[i*numChannels+ch])
		}
		r, err := dspresample.NewForRates(
			float64(fromRate),
			float64(toRate),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return nil, fmt.Errorf("resample %d->%d Hz: %w", fromRate, toRate, err)
		}
		res := r.Process(in)
		if outFrames < 0 {
			outFrames = len(res)
			out = make([]float32, outFrames*numChannels)
		}
		for i := 0; i < outFrames && i < len(res); i++ {
			out[i*numChannels+ch] = float32(res[i])
		}
	}
	return out, nil
}

// Mono returns channel ch of interleaved audio.
func Mono(interleaved []float32, numChannels, ch int) []float32 {
	if numChannels < 1 || ch < 0 || ch >= numChannels {
		return nil
	}
	n := len(interleaved) / numChannels
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = interleaved[i*numChannels+ch]
	}
	return out
}

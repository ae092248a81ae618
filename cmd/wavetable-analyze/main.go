package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-wavetable/analysis"
	"github.com/cwbudde/algo-wavetable/internal/wavio"
)

func main() {
	input := flag.String("input", "output.wav", "WAV file to analyse")
	reference := flag.String("reference", "", "Optional reference WAV for a per-band comparison")
	channel := flag.Int("channel", 0, "Channel to analyse")
	fftSize := flag.Int("fft-size", 4096, "STFT frame size (power of two)")
	minHz := flag.Float64("min-hz", 20, "Lowest pitch searched")
	maxHz := flag.Float64("max-hz", 5000, "Highest pitch searched")
	flag.Parse()

	in, sr := load(*input, *channel)
	fmt.Printf("Input: %s, %d frames @ %d Hz (%.2fs)\n", *input, len(in), sr, float64(len(in))/float64(sr))

	levels := analysis.Measure(in)
	fmt.Printf("Peak: %.6f (%.1f dBFS), RMS: %.6f (%.1f dBFS), clipped: %d\n",
		levels.Peak, levels.PeakDBFS, levels.RMS, levels.RMSDBFS, levels.Clipped)

	pitchWindow := in
	if len(pitchWindow) > sr {
		pitchWindow = pitchWindow[:sr]
	}
	f, err := analysis.DetectPitch(pitchWindow, sr, *minHz, *maxHz)
	switch {
	case errors.Is(err, analysis.ErrTooShort), errors.Is(err, analysis.ErrNoPitch):
		fmt.Printf("Pitch: n/a (%v)\n", err)
	case err != nil:
		die("pitch: %v", err)
	default:
		fmt.Printf("Pitch: %.2f Hz\n", f)
	}

	spectrum, err := analysis.AverageSpectrum(in, sr, *fftSize)
	if err != nil {
		die("spectrum: %v", err)
	}
	fmt.Printf("Spectral peak: %.1f Hz (%d STFT frames, %.2f Hz/bin)\n\n", spectrum.PeakHz(), spectrum.Frames, spectrum.BinHz)
	inBands := spectrum.BandLevels(analysis.DefaultBands)

	if *reference == "" {
		for _, b := range inBands {
			fmt.Printf("  %-22s %6.1fdB\n", b.Name, b.DB)
		}
		return
	}

	ref, refSR := load(*reference, *channel)
	if refSR != sr {
		die("reference rate %d Hz differs from input rate %d Hz", refSR, sr)
	}
	refSpec, err := analysis.AverageSpectrum(ref, refSR, *fftSize)
	if err != nil {
		die("reference spectrum: %v", err)
	}
	refBands := refSpec.BandLevels(analysis.DefaultBands)
	for i, b := range inBands {
		diff := b.DB - refBands[i].DB
		marker := ""
		if diff > 6 || diff < -6 {
			marker = " <<<"
		}
		fmt.Printf("  %-22s ref=%6.1fdB  in=%6.1fdB  diff=%+5.1fdB%s\n", b.Name, refBands[i].DB, b.DB, diff, marker)
	}
}

func load(path string, channel int) ([]float32, int) {
	samples, format, err := wavio.ReadWAV(path)
	if err != nil {
		die("%s: %v", path, err)
	}
	mono := wavio.Mono(samples, format.NumChannels, channel)
	if mono == nil {
		die("%s: channel %d out of range (%d channels)", path, channel, format.NumChannels)
	}
	return mono, format.SampleRate
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

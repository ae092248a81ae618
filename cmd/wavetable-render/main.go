package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-wavetable/analysis"
	"github.com/cwbudde/algo-wavetable/internal/wavio"
	"github.com/cwbudde/algo-wavetable/preset"
	"github.com/cwbudde/algo-wavetable/score"
	"github.com/cwbudde/algo-wavetable/synth"
)

func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4 = 440 Hz)")
	duration := flag.Float64("duration", 2.0, "Duration in seconds")
	releaseAfter := flag.Float64("release-after", -1, "Send NoteOff after this many seconds (<0 holds for the whole duration)")
	scorePath := flag.String("score", "", "Score JSON file (overrides -note)")
	presetPath := flag.String("preset", "", "Settings preset JSON file path (e.g. assets/presets/default.json)")
	sampleRate := flag.Int("sample-rate", 0, "Render sample rate in Hz (0 uses preset)")
	outputRate := flag.Int("output-rate", 0, "WAV sample rate in Hz (0 uses preset)")
	channels := flag.Int("channels", 0, "Output channels (0 uses preset)")
	blockSize := flag.Int("block-size", 0, "Render block size (0 uses preset)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	settings := preset.DefaultSettings()
	if *presetPath != "" {
		var err error
		settings, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("Error loading preset %q: %v", *presetPath, err)
		}
	}
	if *sampleRate > 0 {
		settings.SampleRate = *sampleRate
	}
	if *outputRate > 0 {
		settings.OutputSampleRate = *outputRate
	}
	if *channels > 0 {
		settings.Channels = *channels
	}
	if *blockSize > 0 {
		settings.BlockSize = *blockSize
	}

	var sc *score.Score
	if *scorePath != "" {
		var err error
		sc, err = score.Load(*scorePath)
		if err != nil {
			die("Error loading score: %v", err)
		}
		if d := sc.Duration(); d > *duration {
			*duration = d
		}
		fmt.Printf("Rendering score %s (%d notes) for %.2f seconds at %d Hz...\n", *scorePath, len(sc.Notes), *duration, settings.SampleRate)
	} else {
		if *note < 0 || *note >= synth.NumVoices {
			die("note must be in 0..%d", synth.NumVoices-1)
		}
		hold := *duration
		if *releaseAfter >= 0 && *releaseAfter < hold {
			hold = *releaseAfter
		}
		sc = score.SingleNote(*note, math.Max(hold, 1.0/float64(settings.SampleRate)))
		fmt.Printf("Rendering note %d for %.2f seconds at %d Hz...\n", *note, *duration, settings.SampleRate)
	}

	totalFrames := int(float64(settings.SampleRate) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}

	samples := render(settings, sc, totalFrames)

	levels := analysis.Measure(wavio.Mono(samples, settings.Channels, 0))
	fmt.Printf("Peak: %.6f (%.1f dBFS), RMS: %.6f (%.1f dBFS)\n", levels.Peak, levels.PeakDBFS, levels.RMS, levels.RMSDBFS)
	if levels.Clipped > 0 {
		fmt.Printf("Warning: %d samples exceed full scale\n", levels.Clipped)
	}
	reportPitch(samples, settings)

	outRate := settings.OutputRate()
	if outRate != settings.SampleRate {
		var err error
		samples, err = wavio.Resample(samples, settings.Channels, settings.SampleRate, outRate)
		if err != nil {
			die("Error resampling: %v", err)
		}
	}

	if err := wavio.WriteWAV(*output, samples, outRate, settings.Channels, settings.BitDepth); err != nil {
		die("Error writing WAV file: %v", err)
	}

	fmt.Printf("Successfully wrote %s (%d frames at %d Hz)\n", *output, len(samples)/settings.Channels, outRate)
}

// render runs the synth block by block and returns interleaved frames.
func render(settings *preset.Settings, sc *score.Score, totalFrames int) []float32 {
	s := synth.NewSynth(settings.SynthParams())
	s.Prepare(float64(settings.SampleRate))
	seq := score.NewSequencer(sc, settings.SampleRate)

	buf := synth.NewChannelBuffer(settings.Channels, settings.BlockSize)
	samples := make([]float32, 0, totalFrames*settings.Channels)

	framesRendered := 0
	for framesRendered < totalFrames {
		framesToRender := settings.BlockSize
		if framesRendered+framesToRender > totalFrames {
			framesToRender = totalFrames - framesRendered
		}
		buf.SetNumSamples(framesToRender)
		buf.Clear()
		s.ProcessBlock(buf, seq.Next(framesToRender))
		samples = buf.Interleave(samples)
		framesRendered += framesToRender
	}
	return samples
}

func reportPitch(samples []float32, settings *preset.Settings) {
	mono := wavio.Mono(samples, settings.Channels, 0)
	// Analyse at most one second to keep the autocorrelation cheap.
	if len(mono) > settings.SampleRate {
		mono = mono[:settings.SampleRate]
	}
	f, err := analysis.DetectPitch(mono, settings.SampleRate, 20, 5000)
	switch {
	case errors.Is(err, analysis.ErrTooShort), errors.Is(err, analysis.ErrNoPitch):
		fmt.Printf("Detected pitch: n/a (%v)\n", err)
	case err != nil:
		fmt.Fprintf(os.Stderr, "pitch detection failed: %v\n", err)
	default:
		fmt.Printf("Detected pitch: %.2f Hz\n", f)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rakyll/portmidi"

	"github.com/cwbudde/algo-wavetable/preset"
	"github.com/cwbudde/algo-wavetable/synth"
)

func main() {
	presetPath := flag.String("preset", "", "Settings preset JSON file path (e.g. assets/presets/default.json)")
	note := flag.Int("note", 69, "Test note to play when MIDI input is disabled")
	duration := flag.Float64("duration", 2.0, "Test note duration in seconds")
	useMIDI := flag.Bool("midi", false, "Play from a MIDI input device until interrupted")
	device := flag.Int("device", -1, "PortMidi input device ID (-1 = default input)")
	bufferMs := flag.Int("buffer-ms", 20, "Audio backend buffer size in milliseconds")
	queue := flag.Int("queue", 256, "Pending event queue length")
	flag.Parse()

	settings := preset.DefaultSettings()
	if *presetPath != "" {
		var err error
		settings, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("Error loading preset %q: %v", *presetPath, err)
		}
	}

	s := synth.NewSynth(settings.SynthParams())
	s.Prepare(float64(settings.SampleRate))
	st := newStream(s, settings.Channels, settings.BlockSize, *queue)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   settings.SampleRate,
		ChannelCount: settings.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(*bufferMs) * time.Millisecond,
	})
	if err != nil {
		die("Error opening audio output: %v", err)
	}
	<-ready

	player := ctx.NewPlayer(st)
	player.Play()
	defer player.Close()

	fmt.Printf("Audio running at %d Hz, %d channels, block size %d\n", settings.SampleRate, settings.Channels, settings.BlockSize)

	if *useMIDI {
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runMIDI(sigCtx, st, *device); err != nil {
			fmt.Fprintf(os.Stderr, "MIDI input: %v\n", err)
		}
		st.Send(synth.NewAllNotesOff(0))
		time.Sleep(2 * time.Duration(*bufferMs) * time.Millisecond)
		return
	}

	if *note < 0 || *note >= synth.NumVoices {
		die("note must be in 0..%d", synth.NumVoices-1)
	}
	fmt.Printf("Playing note %d (%.2f Hz) for %.2f seconds...\n", *note, s.NoteFrequency(*note), *duration)
	st.Send(synth.NewNoteOn(*note, 0))
	time.Sleep(time.Duration(*duration * float64(time.Second)))
	st.Send(synth.NewNoteOff(*note, 0))
	time.Sleep(2 * time.Duration(*bufferMs) * time.Millisecond)
}

// runMIDI forwards note messages from a PortMidi input to the stream until
// ctx is cancelled.
func runMIDI(ctx context.Context, st *stream, device int) error {
	if err := portmidi.Initialize(); err != nil {
		return err
	}
	defer portmidi.Terminate()

	id := portmidi.DefaultInputDeviceID()
	if device >= 0 {
		id = portmidi.DeviceID(device)
	}
	if info := portmidi.Info(id); info != nil {
		fmt.Printf("Listening on %s (%s), Ctrl-C to stop\n", info.Name, info.Interface)
	}

	in, err := portmidi.NewInputStream(id, 1024)
	if err != nil {
		return fmt.Errorf("open device %d: %w", id, err)
	}
	defer in.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		events, err := in.Read(1024)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		for _, e := range events {
			ev, ok := decodeMIDI(e.Status, e.Data1, e.Data2)
			if !ok {
				continue
			}
			if !st.Send(ev) {
				fmt.Fprintf(os.Stderr, "event queue full, dropped %s for note %d\n", ev.Kind, ev.Note)
			}
		}
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

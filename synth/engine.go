// Package synth implements the polyphonic wavetable synthesizer: a bank of
// 128 oscillators keyed by note number and a block renderer that applies
// note events at their exact sample offsets.
package synth

import (
	"iter"

	"github.com/cwbudde/algo-wavetable/wavetable"
)

// Synth is the engine owning the shared wavetable and the voice bank.
//
// A Synth is not safe for concurrent use. Prepare may allocate and must not
// run concurrently with ProcessBlock; ProcessBlock itself never allocates,
// blocks or locks.
type Synth struct {
	params     Params
	sampleRate float64
	table      wavetable.Table
	bank       voiceBank
	prepared   bool

	// Block cursor, valid only inside ProcessBlock/ProcessEvents.
	out     []float32
	n       int
	current int
	// yield is s.step, bound once so handing it to an iter.Seq does not
	// allocate per block.
	yield   func(NoteEvent) bool
}

// NewSynth creates an unprepared engine. Call Prepare before rendering.
func NewSynth(params *Params) *Synth {
	p := *NewDefaultParams()
	if params != nil {
		if params.TableLength > 0 {
			p.TableLength = params.TableLength
		}
		if params.ReferencePitch > 0 {
			p.ReferencePitch = params.ReferencePitch
		}
	}
	s := &Synth{params: p}
	s.yield = s.step
	return s
}

// Prepare sets the sample rate and rebuilds every voice silent. It must be
// called before the first render and whenever the sample rate changes.
// A non-positive sample rate leaves the engine unprepared.
func (s *Synth) Prepare(sampleRate float64) {
	if !(sampleRate > 0) {
		s.prepared = false
		return
	}
	if s.table == nil {
		s.table = wavetable.GenerateSine(s.params.TableLength)
	}
	s.sampleRate = sampleRate
	s.bank.initialize(s.table, sampleRate)
	s.prepared = true
}

// Prepared reports whether Prepare succeeded.
func (s *Synth) Prepared() bool {
	return s.prepared
}

// SampleRate returns the rate passed to the last successful Prepare.
func (s *Synth) SampleRate() float64 {
	return s.sampleRate
}

// Table returns the shared wavetable. Callers must not modify it.
func (s *Synth) Table() wavetable.Table {
	return s.table
}

// NoteOn starts the voice for note at frequency Hz. Retriggering a playing
// note keeps its phase. Out-of-range notes and invalid frequencies are ignored.
func (s *Synth) NoteOn(note int, frequency float32) {
	s.bank.noteOn(note, frequency)
}

// NoteOff stops the voice for note.
func (s *Synth) NoteOff(note int) {
	s.bank.noteOff(note)
}

// AllNotesOff stops every voice.
func (s *Synth) AllNotesOff() {
	s.bank.allNotesOff()
}

// NoteFrequency returns the equal-tempered frequency of note under the
// configured reference pitch.
func (s *Synth) NoteFrequency(note int) float32 {
	return noteToFreq(note, s.params.ReferencePitch)
}

// IsNotePlaying reports whether the voice for note is sounding.
func (s *Synth) IsNotePlaying(note int) bool {
	if note < 0 || note >= NumVoices {
		return false
	}
	return s.bank.voices[note].IsPlaying()
}

// ActiveVoices returns the number of sounding voices.
func (s *Synth) ActiveVoices() int {
	return s.bank.numActive
}

// ProcessBlock renders one block into buf, applying events at their sample
// offsets.
//
// Channel 0 is accumulated into, never cleared: the caller passes a silent
// buffer. After rendering, every other channel is overwritten with a copy of
// channel 0. Events must be sorted by Timestamp; an event earlier than the
// previous one is applied at the previous one's offset, and offsets past the
// block end are clamped to it, so an event at the block length only affects
// the next block. Without a prior Prepare the call does nothing.
func (s *Synth) ProcessBlock(buf Buffer, events []NoteEvent) {
	if !s.begin(buf) {
		return
	}
	for i := range events {
		s.step(events[i])
	}
	s.finish(buf)
}

// ProcessEvents is ProcessBlock over a lazily produced event sequence.
func (s *Synth) ProcessEvents(buf Buffer, events iter.Seq[NoteEvent]) {
	if !s.begin(buf) {
		return
	}
	if events != nil {
		events(s.yield)
	}
	s.finish(buf)
}

func (s *Synth) begin(buf Buffer) bool {
	if !s.prepared || buf == nil {
		return false
	}
	s.out, s.n = firstChannel(buf)
	s.current = 0
	return true
}

// step renders up to the event's offset, then applies it.
func (s *Synth) step(ev NoteEvent) bool {
	ts := clampTimestamp(ev.Timestamp, s.current, s.n)
	s.bank.render(s.out, s.current, ts)
	s.current = ts
	s.handleEvent(&ev)
	return true
}

func (s *Synth) finish(buf Buffer) {
	s.bank.render(s.out, s.current, s.n)
	replicate(buf, s.out[:s.n])
	s.out = nil
}

func (s *Synth) handleEvent(ev *NoteEvent) {
	switch ev.Kind {
	case NoteOn:
		freq := ev.Frequency
		if freq <= 0 {
			freq = noteToFreq(ev.Note, s.params.ReferencePitch)
		}
		s.bank.noteOn(ev.Note, freq)
	case NoteOff:
		s.bank.noteOff(ev.Note)
	case AllNotesOff:
		s.bank.allNotesOff()
	}
}

func firstChannel(buf Buffer) ([]float32, int) {
	if buf.NumChannels() < 1 {
		return nil, 0
	}
	out := buf.Channel(0)
	n := buf.NumSamples()
	if n > len(out) {
		n = len(out)
	}
	if n < 0 {
		n = 0
	}
	return out, n
}

func clampTimestamp(ts, lo, hi int) int {
	if ts < lo {
		return lo
	}
	if ts > hi {
		return hi
	}
	return ts
}

func replicate(buf Buffer, out []float32) {
	for ch := 1; ch < buf.NumChannels(); ch++ {
		copy(buf.Channel(ch), out)
	}
}

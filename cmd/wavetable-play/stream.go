package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-wavetable/synth"
)

// MIDI channel voice messages, status nibble only.
const (
	midiNoteOff       = 0x80
	midiNoteOn        = 0x90
	midiControlChange = 0xB0

	ccAllSoundOff = 120
	ccAllNotesOff = 123
)

// decodeMIDI maps a short MIDI message onto a note event at timestamp 0.
// Unsupported messages report false.
func decodeMIDI(status, data1, data2 int64) (synth.NoteEvent, bool) {
	note := int(data1 & 0x7F)
	switch status & 0xF0 {
	case midiNoteOn:
		if data2 == 0 {
			return synth.NewNoteOff(note, 0), true
		}
		return synth.NewNoteOn(note, 0), true
	case midiNoteOff:
		return synth.NewNoteOff(note, 0), true
	case midiControlChange:
		if data1 == ccAllNotesOff || data1 == ccAllSoundOff {
			return synth.NewAllNotesOff(0), true
		}
	}
	return synth.NoteEvent{}, false
}

// stream renders the synth on demand as interleaved float32 little endian
// PCM. Read is called from the audio backend goroutine only; other
// goroutines talk to it through Send.
type stream struct {
	synth     *synth.Synth
	buf       *synth.ChannelBuffer
	events    chan synth.NoteEvent
	pending   []synth.NoteEvent
	channels  int
	blockSize int
}

func newStream(s *synth.Synth, channels, blockSize, queue int) *stream {
	if channels < 1 {
		channels = 1
	}
	if blockSize < 1 {
		blockSize = 1
	}
	if queue < 1 {
		queue = 1
	}
	return &stream{
		synth:     s,
		buf:       synth.NewChannelBuffer(channels, blockSize),
		events:    make(chan synth.NoteEvent, queue),
		pending:   make([]synth.NoteEvent, 0, queue),
		channels:  channels,
		blockSize: blockSize,
	}
}

// Send queues an event for the next rendered block. It never blocks and
// reports false when the queue is full.
func (st *stream) Send(ev synth.NoteEvent) bool {
	select {
	case st.events <- ev:
		return true
	default:
		return false
	}
}

// drain moves queued events into pending, all at the start of the block.
func (st *stream) drain() []synth.NoteEvent {
	st.pending = st.pending[:0]
	for len(st.pending) < cap(st.pending) {
		select {
		case ev := <-st.events:
			ev.Timestamp = 0
			st.pending = append(st.pending, ev)
		default:
			return st.pending
		}
	}
	return st.pending
}

func (st *stream) Read(p []byte) (int, error) {
	frameBytes := 4 * st.channels
	n := 0
	for len(p)-n >= frameBytes {
		frames := (len(p) - n) / frameBytes
		if frames > st.blockSize {
			frames = st.blockSize
		}
		st.buf.SetNumSamples(frames)
		st.buf.Clear()
		st.synth.ProcessBlock(st.buf, st.drain())

		for i := 0; i < frames; i++ {
			for ch := 0; ch < st.channels; ch++ {
				binary.LittleEndian.PutUint32(p[n:], math.Float32bits(st.buf.Channel(ch)[i]))
				n += 4
			}
		}
	}
	if n == 0 {
		// Shorter than one frame: emit silence so the backend keeps pulling.
		clear(p)
		return len(p), nil
	}
	return n, nil
}

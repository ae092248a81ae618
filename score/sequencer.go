package score

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-wavetable/synth"
)

type timedEvent struct {
	frame int64
	ev    synth.NoteEvent
}

// Sequencer hands out the events of a Score one block at a time with
// timestamps relative to the block start. Next does not allocate.
type Sequencer struct {
	events []timedEvent
	block  []synth.NoteEvent
	pos    int
	clock  int64
	end    int64
}

// NewSequencer schedules s at sampleRate. Events sharing a frame are ordered
// all-notes-off, then note-off, then note-on, so a note ending where the same
// note starts again retriggers cleanly.
func NewSequencer(s *Score, sampleRate int) *Sequencer {
	q := &Sequencer{}
	if s == nil || sampleRate <= 0 {
		return q
	}
	toFrame := func(sec float64) int64 {
		return int64(math.Round(sec * float64(sampleRate)))
	}

	q.events = make([]timedEvent, 0, 2*len(s.Notes)+1)
	for _, n := range s.Notes {
		start := toFrame(n.Start)
		stop := toFrame(n.Start + n.Duration)
		if stop <= start {
			stop = start + 1
		}
		q.events = append(q.events,
			timedEvent{frame: start, ev: synth.NoteEvent{Note: n.Note, Kind: synth.NoteOn, Frequency: n.Frequency}},
			timedEvent{frame: stop, ev: synth.NoteEvent{Note: n.Note, Kind: synth.NoteOff}},
		)
	}
	if s.AllNotesOff != nil {
		q.events = append(q.events, timedEvent{frame: toFrame(*s.AllNotesOff), ev: synth.NoteEvent{Kind: synth.AllNotesOff}})
	}
	sort.SliceStable(q.events, func(i, j int) bool {
		a, b := q.events[i], q.events[j]
		if a.frame != b.frame {
			return a.frame < b.frame
		}
		return kindOrder(a.ev.Kind) < kindOrder(b.ev.Kind)
	})
	if len(q.events) > 0 {
		q.end = q.events[len(q.events)-1].frame
	}
	q.block = make([]synth.NoteEvent, 0, len(q.events))
	return q
}

func kindOrder(k synth.EventKind) int {
	switch k {
	case synth.AllNotesOff:
		return 0
	case synth.NoteOff:
		return 1
	default:
		return 2
	}
}

// Next returns the events falling in the next blockLen frames and advances
// the clock. The returned slice is reused by the following call.
func (q *Sequencer) Next(blockLen int) []synth.NoteEvent {
	q.block = q.block[:0]
	if blockLen <= 0 {
		return q.block
	}
	limit := q.clock + int64(blockLen)
	for q.pos < len(q.events) && q.events[q.pos].frame < limit {
		te := q.events[q.pos]
		ev := te.ev
		ev.Timestamp = int(te.frame - q.clock)
		q.block = append(q.block, ev)
		q.pos++
	}
	q.clock = limit
	return q.block
}

// Done reports whether every event has been handed out.
func (q *Sequencer) Done() bool {
	return q.pos >= len(q.events)
}

// Position returns the number of frames consumed so far.
func (q *Sequencer) Position() int64 {
	return q.clock
}

// EndFrame returns the frame of the last scheduled event.
func (q *Sequencer) EndFrame() int64 {
	return q.end
}

// Reset rewinds to frame 0.
func (q *Sequencer) Reset() {
	q.pos = 0
	q.clock = 0
	q.block = q.block[:0]
}

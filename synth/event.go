package synth

import "fmt"

// EventKind identifies what a NoteEvent does to the voice bank.
type EventKind uint8

const (
	// NoteOn starts (or retunes) the voice for Note.
	NoteOn EventKind = iota + 1
	// NoteOff stops the voice for Note.
	NoteOff
	// AllNotesOff stops every voice. Note is ignored.
	AllNotesOff
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case AllNotesOff:
		return "all-notes-off"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// NoteEvent is a timestamped voice command inside one block.
//
// Timestamp is a sample offset in [0, block length]. Frequency is only read
// for NoteOn; a value <= 0 means "derive it from Note".
type NoteEvent struct {
	Note      int
	Kind      EventKind
	Timestamp int
	Frequency float32
}

// NewNoteOn returns a NoteOn event for note at timestamp. Frequency is left
// at 0 so the engine tunes it from its own reference pitch.
func NewNoteOn(note int, timestamp int) NoteEvent {
	return NoteEvent{Note: note, Kind: NoteOn, Timestamp: timestamp}
}

// NewNoteOff returns a NoteOff event for note at timestamp.
func NewNoteOff(note int, timestamp int) NoteEvent {
	return NoteEvent{Note: note, Kind: NoteOff, Timestamp: timestamp}
}

// NewAllNotesOff returns an AllNotesOff event at timestamp.
func NewAllNotesOff(timestamp int) NoteEvent {
	return NoteEvent{Kind: AllNotesOff, Timestamp: timestamp}
}

package midi

import (
	"fmt"
)

// EventType identifies the kind of trigger event
type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	// EventTypeHold is a sustain-pedal style latch that defers NoteOff
	EventTypeHold
)

// String returns the event type name
func (t EventType) String() string {
	switch t {
	case EventTypeNoteOff:
		return "NoteOff"
	case EventTypeNoteOn:
		return "NoteOn"
	case EventTypeHold:
		return "Hold"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is a trigger delivered to the voice. It is a plain value so
// queues and blocks can carry it without allocating.
type Event struct {
	Type EventType
	// Offset is the sample position within the block
	Offset int32
	// On is the pedal state for Hold events
	On bool
}

// NoteOn creates a note-on trigger
func NoteOn(offset int32) Event {
	return Event{Type: EventTypeNoteOn, Offset: offset}
}

// NoteOff creates a note-off trigger
func NoteOff(offset int32) Event {
	return Event{Type: EventTypeNoteOff, Offset: offset}
}

// Hold creates a hold (sustain pedal) event
func Hold(on bool, offset int32) Event {
	return Event{Type: EventTypeHold, Offset: offset, On: on}
}

// SampleOffset returns the sample position within the block
func (e Event) SampleOffset() int32 {
	return e.Offset
}

func (e Event) String() string {
	if e.Type == EventTypeHold {
		return fmt.Sprintf("Hold{on:%t, offset:%d}", e.On, e.Offset)
	}
	return fmt.Sprintf("%s{offset:%d}", e.Type, e.Offset)
}

// EventProcessor consumes trigger events
type EventProcessor interface {
	ProcessEvent(event Event)
}

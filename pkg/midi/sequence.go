package midi

import (
	"sort"
)

// TimedEvent is a trigger at an absolute sample position
type TimedEvent struct {
	Sample int64
	Event  Event
}

// Sequence is an ordered list of triggers on an absolute sample timeline,
// used to script offline renders.
type Sequence struct {
	events []TimedEvent
	sorted bool
}

// NewSequence creates an empty sequence
func NewSequence() *Sequence {
	return &Sequence{
		events: make([]TimedEvent, 0, 16),
		sorted: true,
	}
}

// Add schedules an event at an absolute sample position
func (s *Sequence) Add(sample int64, e Event) {
	s.events = append(s.events, TimedEvent{Sample: sample, Event: e})
	s.sorted = false
}

// AddNote schedules a NoteOn at on and a NoteOff at off
func (s *Sequence) AddNote(on, off int64) {
	s.Add(on, NoteOn(0))
	s.Add(off, NoteOff(0))
}

// Len returns the number of scheduled events
func (s *Sequence) Len() int {
	return len(s.events)
}

// End returns the sample position of the last event, or 0 when empty
func (s *Sequence) End() int64 {
	s.sort()
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].Sample
}

// Events returns a copy of the scheduled events in time order
func (s *Sequence) Events() []TimedEvent {
	s.sort()
	result := make([]TimedEvent, len(s.events))
	copy(result, s.events)
	return result
}

// Block appends the events falling in [start, start+n) to dst with their
// offsets made relative to start, and returns the extended slice.
func (s *Sequence) Block(start int64, n int, dst []Event) []Event {
	s.sort()
	if len(s.events) == 0 || n <= 0 {
		return dst
	}

	end := start + int64(n)
	// Binary search for start position
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Sample >= start
	})

	for ; idx < len(s.events) && s.events[idx].Sample < end; idx++ {
		e := s.events[idx].Event
		e.Offset = int32(s.events[idx].Sample - start)
		dst = append(dst, e)
	}
	return dst
}

// Clear removes every scheduled event
func (s *Sequence) Clear() {
	s.events = s.events[:0]
	s.sorted = true
}

func (s *Sequence) sort() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].Sample < s.events[j].Sample
	})
	s.sorted = true
}

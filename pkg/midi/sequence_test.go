package midi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSequenceBlock(t *testing.T) {
	s := NewSequence()

	// Added out of order
	s.Add(1000, NoteOff(0))
	s.Add(10, NoteOn(0))
	s.Add(512, Hold(true, 0))

	tests := []struct {
		name  string
		start int64
		n     int
		want  []Event
	}{
		{"first block", 0, 512, []Event{NoteOn(10)}},
		{"boundary", 512, 512, []Event{Hold(true, 0), NoteOff(488)}},
		{"empty", 1024, 512, nil},
		{"zero length", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Block(tt.start, tt.n, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Block(%d, %d) mismatch (-want +got):\n%s", tt.start, tt.n, diff)
			}
		})
	}
}

func TestSequenceAddNote(t *testing.T) {
	s := NewSequence()
	s.AddNote(100, 4800)

	if s.Len() != 2 {
		t.Fatalf("Expected 2 events, got %d", s.Len())
	}
	if s.End() != 4800 {
		t.Errorf("Expected end 4800, got %d", s.End())
	}

	want := []TimedEvent{
		{Sample: 100, Event: NoteOn(0)},
		{Sample: 4800, Event: NoteOff(0)},
	}
	if diff := cmp.Diff(want, s.Events()); diff != "" {
		t.Errorf("Events mismatch (-want +got):\n%s", diff)
	}

	s.Clear()
	if s.Len() != 0 || s.End() != 0 {
		t.Errorf("Clear left %d events, end %d", s.Len(), s.End())
	}
}

func TestSequenceStableOrder(t *testing.T) {
	s := NewSequence()
	s.Add(50, NoteOff(0))
	s.Add(50, NoteOn(0))

	got := s.Block(0, 100, nil)
	want := []Event{NoteOff(50), NoteOn(50)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("same-sample events reordered (-want +got):\n%s", diff)
	}
}

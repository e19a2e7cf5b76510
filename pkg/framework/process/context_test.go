package process

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/midi"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext(2, 512, nil)

	if ctx.NumOutputChannels() != 2 {
		t.Errorf("Expected 2 channels, got %d", ctx.NumOutputChannels())
	}
	if ctx.NumSamples() != 512 {
		t.Errorf("Expected 512 samples, got %d", ctx.NumSamples())
	}
	if ctx.MaxBlockSize() != 512 {
		t.Errorf("Expected max block 512, got %d", ctx.MaxBlockSize())
	}

	// At least one channel
	if NewContext(0, 16, nil).NumOutputChannels() != 1 {
		t.Error("Expected channel count to be raised to 1")
	}
}

func TestSetBlock(t *testing.T) {
	ctx := NewContext(2, 256, nil)

	tests := []struct {
		n, want int
	}{
		{128, 128},
		{0, 0},
		{-5, 0},
		{1000, 256},
	}
	for _, tt := range tests {
		if got := ctx.SetBlock(tt.n); got != tt.want {
			t.Errorf("SetBlock(%d) = %d, want %d", tt.n, got, tt.want)
		}
		for ch, out := range ctx.Output {
			if len(out) != tt.want {
				t.Errorf("channel %d len %d, want %d", ch, len(out), tt.want)
			}
		}
	}
}

func TestClear(t *testing.T) {
	ctx := NewContext(2, 8, nil)
	ctx.ProcessChannels(func(ch int, out []float32) {
		for i := range out {
			out[i] = float32(ch + 1)
		}
	})

	ctx.Clear()
	for ch, out := range ctx.Output {
		for i, v := range out {
			if v != 0 {
				t.Fatalf("channel %d sample %d = %f after Clear", ch, i, v)
			}
		}
	}
}

func TestContextEvents(t *testing.T) {
	ctx := NewContext(1, 64, nil)

	if ctx.HasEvents() {
		t.Error("Expected no events on a new context")
	}

	ctx.AddEvent(midi.NoteOn(10))
	ctx.AddEvent(midi.Hold(true, 20))

	q := midi.NewQueue(8)
	q.Push(midi.NoteOff(0))
	q.Push(midi.Hold(false, 0))
	if n := ctx.DrainQueue(q); n != 2 {
		t.Errorf("DrainQueue took %d events, want 2", n)
	}

	want := []midi.Event{midi.NoteOn(10), midi.Hold(true, 20), midi.NoteOff(0), midi.Hold(false, 0)}
	if diff := cmp.Diff(want, ctx.Events()); diff != "" {
		t.Errorf("Events mismatch (-want +got):\n%s", diff)
	}

	ctx.ClearEvents()
	if ctx.HasEvents() {
		t.Error("Expected no events after ClearEvents")
	}
}

func TestContextEventCapacity(t *testing.T) {
	ctx := NewContext(1, 64, nil)
	for i := 0; i < DefaultMaxEvents; i++ {
		if !ctx.AddEvent(midi.NoteOn(int32(i))) {
			t.Fatalf("AddEvent %d failed below capacity", i)
		}
	}
	if ctx.AddEvent(midi.NoteOff(0)) {
		t.Error("AddEvent succeeded past capacity")
	}

	allocs := testing.AllocsPerRun(50, func() {
		ctx.ClearEvents()
		ctx.AddEvent(midi.NoteOn(0))
		ctx.SetBlock(32)
		ctx.Clear()
	})
	if allocs != 0 {
		t.Errorf("block setup allocated %.1f times per run", allocs)
	}
}

func TestContextParams(t *testing.T) {
	ctx := NewContext(1, 64, nil)
	if ctx.Param(param.OscMix) != 0 || ctx.ParamPlain(param.OscMix) != 0 {
		t.Error("Expected zero parameter values without a registry")
	}
	if diff := cmp.Diff(param.DefaultSnapshot(), ctx.Snapshot()); diff != "" {
		t.Errorf("Snapshot without registry (-want +got):\n%s", diff)
	}

	registry := param.NewSynthRegistry()
	registry.Get(param.OscMix).SetPlainValue(0.25)
	ctx = NewContext(1, 64, registry)
	if ctx.ParamPlain(param.OscMix) != 0.25 {
		t.Errorf("ParamPlain = %f, want 0.25", ctx.ParamPlain(param.OscMix))
	}
	if ctx.Param(param.OscMix) != 0.25 {
		t.Errorf("Param = %f, want 0.25", ctx.Param(param.OscMix))
	}
	if ctx.Snapshot().OscMix != 0.25 {
		t.Errorf("Snapshot().OscMix = %f, want 0.25", ctx.Snapshot().OscMix)
	}
	if ctx.Params() != registry {
		t.Error("Params() did not return the registry")
	}
}

func TestInterleave(t *testing.T) {
	ctx := NewContext(2, 4, nil)
	copy(ctx.Output[0], []float32{1, 2, 3, 4})
	copy(ctx.Output[1], []float32{-1, -2, -3, -4})

	dst := make([]float32, 8)
	if n := ctx.Interleave(dst); n != 4 {
		t.Errorf("Interleave wrote %d frames, want 4", n)
	}
	want := []float32{1, -1, 2, -2, 3, -3, 4, -4}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("Interleave mismatch (-want +got):\n%s", diff)
	}

	// Short destination keeps whole frames only
	short := make([]float32, 5)
	if n := ctx.Interleave(short); n != 2 {
		t.Errorf("short Interleave wrote %d frames, want 2", n)
	}

	mono := make([]float32, 4)
	if n := ctx.CopyChannel(1, mono); n != 4 || mono[3] != -4 {
		t.Errorf("CopyChannel = %d, %v", n, mono)
	}
	if ctx.CopyChannel(5, mono) != 0 {
		t.Error("CopyChannel of a missing channel copied samples")
	}
}

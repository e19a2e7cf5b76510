package render

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/justyntemme/monosynth/pkg/dsp"
	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/midi"
	"github.com/justyntemme/monosynth/pkg/synth"
	"github.com/justyntemme/monosynth/pkg/wave"
)

const testRate = 48000.0

func newTestRenderer(t *testing.T, channels, blockSize int) (*Renderer, *synth.Processor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := debug.New(&logs, "test", debug.FlagLevel|debug.FlagPrefix)

	proc := synth.NewProcessor(channels, logger)
	if err := proc.Initialize(testRate, 256); err != nil {
		t.Fatal(err)
	}

	r, err := New(proc, blockSize, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, proc, &logs
}

func TestNewRequiresInitializedProcessor(t *testing.T) {
	proc := synth.NewProcessor(2, debug.New(&bytes.Buffer{}, "", 0))
	if _, err := New(proc, 128, nil); !errors.Is(err, synth.ErrNotInitialized) {
		t.Errorf("New() error = %v, want ErrNotInitialized", err)
	}
}

func TestBlockSizeLimit(t *testing.T) {
	r, _, _ := newTestRenderer(t, 1, 4096)
	if r.BlockSize() != 256 {
		t.Errorf("BlockSize() = %d, want processor maximum 256", r.BlockSize())
	}

	r, _, _ = newTestRenderer(t, 1, 0)
	if r.BlockSize() != 256 {
		t.Errorf("BlockSize() = %d for 0, want 256", r.BlockSize())
	}
}

func TestToBufferSequence(t *testing.T) {
	r, proc, logs := newTestRenderer(t, 2, 128)
	if proc.IsActive() {
		t.Fatal("processor active before Run")
	}

	seq := midi.NewSequence()
	seq.AddNote(512, 4096)

	out, stats, err := r.ToBuffer(context.Background(), seq, 5000)
	if err != nil {
		t.Fatalf("ToBuffer() error = %v", err)
	}

	if !proc.IsActive() {
		t.Error("Run did not activate the processor")
	}
	if len(out) != 2 || len(out[0]) != 5000 || len(out[1]) != 5000 {
		t.Fatalf("output shape = %d x %d", len(out), len(out[0]))
	}
	if stats.Frames != 5000 || stats.Blocks != 40 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if p := dsp.Peak(out[0][:512]); p != 0 {
		t.Errorf("output before note on = %f, want silence", p)
	}
	if p := dsp.Peak(out[0][1024:4096]); p == 0 {
		t.Error("no output while the note is held")
	}
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatalf("channels differ at %d", i)
		}
	}

	if !strings.Contains(logs.String(), "[INFO] [test/render] rendered 5000 frames in 40 blocks") {
		t.Errorf("missing render log:\n%s", logs.String())
	}
	if m, ok := r.Profiler().GetMeasurement(debug.BlockSection); !ok || m.Count() != 40 {
		t.Errorf("profiler recorded %d blocks", m.Count())
	}
}

func TestToBufferDrone(t *testing.T) {
	r, proc, _ := newTestRenderer(t, 1, 256)
	proc.GetParameters().Get(param.AlwaysOn).SetBool(true)
	proc.GetParameters().Get(param.FilterBypass).SetBool(true)
	proc.GetParameters().Get(param.Attack).SetPlainValue(0)
	proc.GetParameters().Get(param.Decay).SetPlainValue(0)
	proc.GetParameters().Get(param.Sustain).SetPlainValue(1)

	out, _, err := r.ToBuffer(context.Background(), nil, 4800)
	if err != nil {
		t.Fatal(err)
	}

	// Two sines in phase mixed at the fixed headroom
	if p := dsp.Peak(out[0]); p < 0.149 || p > 0.1501 {
		t.Errorf("drone peak = %f, want ~0.15", p)
	}
}

func TestToWAVMatchesBuffer(t *testing.T) {
	seq := func() *midi.Sequence {
		s := midi.NewSequence()
		s.AddNote(0, 2000)
		return s
	}

	r1, _, _ := newTestRenderer(t, 2, 100)
	samples, _, err := r1.ToBuffer(context.Background(), seq(), 3000)
	if err != nil {
		t.Fatal(err)
	}

	r2, _, _ := newTestRenderer(t, 2, 100)
	var buf bytes.Buffer
	stats, err := r2.ToWAV(context.Background(), seq(), 3000, &buf)
	if err != nil {
		t.Fatalf("ToWAV() error = %v", err)
	}
	if stats.Frames != 3000 {
		t.Errorf("stats.Frames = %d", stats.Frames)
	}

	h, err := wave.DecodeHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if h.Channels != 2 || h.SampleRate != 48000 || h.Frames() != 3000 {
		t.Fatalf("header = %+v", h)
	}

	data := buf.Bytes()[44:]
	for i := 0; i < 3000; i++ {
		for ch := 0; ch < 2; ch++ {
			got := int16(binary.LittleEndian.Uint16(data[(i*2+ch)*2:]))
			if want := wave.Quantize(samples[ch][i]); got != want {
				t.Fatalf("frame %d channel %d = %d, want %d", i, ch, got, want)
			}
		}
	}
}

func TestRunCancelled(t *testing.T) {
	r, _, _ := newTestRenderer(t, 1, 64)

	ctx, cancel := context.WithCancel(context.Background())
	blocks := 0
	_, err := r.Run(ctx, nil, 10000, func(block [][]float32, n int) error {
		blocks++
		if blocks == 3 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if blocks != 3 {
		t.Errorf("sink saw %d blocks after cancel, want 3", blocks)
	}
}

func TestRunSinkError(t *testing.T) {
	r, _, _ := newTestRenderer(t, 1, 64)
	errFull := errors.New("disk full")

	stats, err := r.Run(context.Background(), nil, 1000, func(block [][]float32, n int) error {
		return errFull
	})
	if !errors.Is(err, errFull) {
		t.Errorf("Run() error = %v, want sink error", err)
	}
	if stats.Blocks != 0 {
		t.Errorf("stats.Blocks = %d, want 0", stats.Blocks)
	}
}

func TestRunPartialBlock(t *testing.T) {
	r, _, _ := newTestRenderer(t, 2, 100)

	var sizes []int
	_, err := r.Run(context.Background(), nil, 250, func(block [][]float32, n int) error {
		if len(block[0]) != n || len(block[1]) != n {
			t.Errorf("block slices are %d/%d long for n=%d", len(block[0]), len(block[1]), n)
		}
		sizes = append(sizes, n)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sizes) != 3 || sizes[2] != 50 {
		t.Errorf("block sizes = %v, want [100 100 50]", sizes)
	}
}

func TestFrames(t *testing.T) {
	tests := []struct {
		seconds, rate float64
		want          int
	}{
		{1, 48000, 48000},
		{0.5, 44100, 22050},
		{0, 48000, 0},
		{-1, 48000, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := Frames(tt.seconds, tt.rate); got != tt.want {
			t.Errorf("Frames(%v, %v) = %d, want %d", tt.seconds, tt.rate, got, tt.want)
		}
	}
}

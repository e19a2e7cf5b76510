package synth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/justyntemme/monosynth/pkg/dsp/envelope"
	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/framework/process"
	"github.com/justyntemme/monosynth/pkg/midi"
)

func newTestProcessor(t *testing.T, channels int) (*Processor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := debug.New(&logs, "test", debug.FlagLevel|debug.FlagPrefix)
	logger.SetLevel(debug.LogLevelDebug)

	p := NewProcessor(channels, logger)
	if err := p.Initialize(testRate, 256); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := p.SetActive(true); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	return p, &logs
}

func peak(buf []float32) float32 {
	var m float32
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

func TestProcessorInitialize(t *testing.T) {
	p, logs := newTestProcessor(t, 2)

	if !strings.Contains(logs.String(), "[INFO] [test] initialized: 48000 Hz, 2 channels") {
		t.Errorf("unexpected log output: %q", logs.String())
	}
	if p.GetParameters().Count() != int32(param.NumParams) {
		t.Errorf("registry holds %d parameters", p.GetParameters().Count())
	}
	if p.Context() == nil || p.Context().MaxBlockSize() != 256 {
		t.Error("context not allocated for the block size")
	}
	if p.NumChannels() != 2 || p.SampleRate() != testRate || !p.IsActive() {
		t.Errorf("state = %d channels, %f Hz, active %t", p.NumChannels(), p.SampleRate(), p.IsActive())
	}

	bad := NewProcessor(1, debug.New(&bytes.Buffer{}, "", 0))
	if err := bad.Initialize(0, 256); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("Initialize(0) error = %v, want ErrInvalidSampleRate", err)
	}
	if err := bad.SetActive(true); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SetActive before Initialize error = %v, want ErrNotInitialized", err)
	}
}

func TestProcessorRenderTriggers(t *testing.T) {
	p, _ := newTestProcessor(t, 2)
	out := makeBuffers(2, 1000) // spans several internal blocks

	p.Render(out, 1000)
	if peak(out[0]) != 0 {
		t.Fatal("output before any trigger")
	}

	if !p.Trigger(midi.NoteOn(0)) {
		t.Fatal("Trigger failed")
	}
	p.Render(out, 1000)
	if peak(out[0]) == 0 {
		t.Fatal("NoteOn produced silence")
	}
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatalf("channels differ at %d", i)
		}
	}
	if p.Engine().EnvelopeStage() != envelope.StageAttack {
		t.Errorf("stage = %v, want Attack", p.Engine().EnvelopeStage())
	}

	p.Trigger(midi.NoteOff(0))
	p.Render(out, 10)
	if p.Engine().EnvelopeStage() != envelope.StageRelease {
		t.Errorf("stage = %v, want Release", p.Engine().EnvelopeStage())
	}
}

func TestProcessorParameters(t *testing.T) {
	p, _ := newTestProcessor(t, 1)
	out := makeBuffers(1, 512)

	p.GetParameters().Get(param.AlwaysOn).SetBool(true)
	p.Render(out, 512)
	if peak(out[0]) == 0 {
		t.Fatal("always-on produced silence")
	}

	p.GetParameters().Get(param.MasterEnabled).SetBool(false)
	p.Render(out, 512)
	if peak(out[0]) != 0 {
		t.Error("master off still produced output")
	}

	if p.GetTailSamples() != 24000 {
		t.Errorf("GetTailSamples() = %d, want 24000", p.GetTailSamples())
	}
	if p.GetLatencySamples() != 0 {
		t.Errorf("GetLatencySamples() = %d, want 0", p.GetLatencySamples())
	}
}

func TestProcessorInactive(t *testing.T) {
	p, _ := newTestProcessor(t, 2)
	out := makeBuffers(3, 128)

	p.Trigger(midi.NoteOn(0))
	p.Render(out, 128)
	if peak(out[0]) == 0 {
		t.Fatal("expected output while active")
	}
	if peak(out[2]) != 0 {
		t.Error("channel beyond the processor's count was written")
	}

	if err := p.SetActive(false); err != nil {
		t.Fatal(err)
	}
	for ch := range out {
		out[ch][0] = 1
	}
	p.Render(out, 128)
	for ch := range out {
		if peak(out[ch]) != 0 {
			t.Errorf("inactive render left output on channel %d", ch)
		}
	}

	// Reactivation starts from silence
	if err := p.SetActive(true); err != nil {
		t.Fatal(err)
	}
	p.Render(out, 128)
	if peak(out[0]) != 0 || p.Engine().EnvelopeStage() != envelope.StageIdle {
		t.Errorf("reactivated voice still sounding: stage %v", p.Engine().EnvelopeStage())
	}
}

func TestProcessorExternalContext(t *testing.T) {
	p, _ := newTestProcessor(t, 2)
	ctx := process.NewContext(2, 64, p.GetParameters())
	ctx.AddEvent(midi.NoteOn(0))

	p.ProcessAudio(ctx)
	if ctx.HasEvents() {
		t.Error("events not consumed")
	}
	if peak(ctx.Output[0]) == 0 {
		t.Error("ProcessAudio produced silence after NoteOn")
	}
}

func TestProcessorRenderNoAllocs(t *testing.T) {
	p, _ := newTestProcessor(t, 2)
	p.GetParameters().Get(param.AlwaysOn).SetBool(true)
	out := makeBuffers(2, 700)

	allocs := testing.AllocsPerRun(50, func() {
		p.Trigger(midi.Hold(true, 0))
		p.Render(out, 700)
	})
	if allocs != 0 {
		t.Errorf("Render allocated %.1f times per call", allocs)
	}
}

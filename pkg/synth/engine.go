// Package synth implements the monophonic subtractive voice: two mixed
// oscillators into an LFO-swept state-variable filter, shaped by an ADSR.
package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/justyntemme/monosynth/pkg/dsp"
	"github.com/justyntemme/monosynth/pkg/dsp/envelope"
	"github.com/justyntemme/monosynth/pkg/dsp/filter"
	"github.com/justyntemme/monosynth/pkg/dsp/mix"
	"github.com/justyntemme/monosynth/pkg/dsp/modulation"
	"github.com/justyntemme/monosynth/pkg/dsp/oscillator"
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/framework/process"
	"github.com/justyntemme/monosynth/pkg/midi"
)

var (
	// ErrInvalidSampleRate is returned by Prepare for a non-positive rate
	ErrInvalidSampleRate = errors.New("synth: sample rate must be positive")
	// ErrInvalidBlockSize is returned by Prepare for a negative block size
	ErrInvalidBlockSize = errors.New("synth: block size must not be negative")
	// ErrNotInitialized is returned when a processor is used before Initialize
	ErrNotInitialized = errors.New("synth: processor not initialized")
)

// Engine owns all DSP state of the voice. It is not safe for concurrent
// use; Process runs on the audio thread only.
type Engine struct {
	sampleRate   float64
	maxBlockSize int
	prepared     bool

	osc1   *oscillator.Oscillator
	osc2   *oscillator.Oscillator
	lfo    *modulation.LFO
	filter *filter.SVF
	env    *envelope.ADSR

	// Trigger state
	prevAlwaysOn   bool
	holding        bool
	pendingRelease bool
}

// NewEngine creates an engine. Prepare must be called before Process.
func NewEngine() *Engine {
	sr := dsp.SampleRate48k
	return &Engine{
		sampleRate: sr,
		osc1:       oscillator.New(sr),
		osc2:       oscillator.New(sr),
		lfo:        modulation.NewLFO(sr),
		filter:     filter.NewSVF(sr),
		env:        envelope.New(sr),
	}
}

// Prepare sets the sample rate and maximum block size. It clears the filter
// and envelope and forgets the always-on edge; oscillator and LFO phases
// are kept and their increments recomputed.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}

	e.sampleRate = sampleRate
	e.maxBlockSize = maxBlockSize

	e.osc1.SetSampleRate(sampleRate)
	e.osc2.SetSampleRate(sampleRate)
	e.lfo.SetSampleRate(sampleRate)
	e.filter.Prepare(sampleRate)
	e.env.SetSampleRate(sampleRate)
	e.env.Reset()

	e.prevAlwaysOn = false
	e.holding = false
	e.pendingRelease = false
	e.prepared = true
	return nil
}

// Process renders numSamples samples into every channel of out.
//
// With the master switch off the block is silent and no state advances.
// Triggers are applied at the start of the block; their offsets are not
// used. They run before the block's envelope times are loaded, so a NoteOn
// picks its zero-time shortcut from the previous block's settings: the first
// note after attack drops to 0 still passes through one sample at 1.0 before
// reaching decay or sustain.
//
// Process never allocates, locks or blocks. It panics if Prepare has not
// succeeded.
func (e *Engine) Process(out [][]float32, numSamples int, p param.Snapshot, events []midi.Event) {
	if !e.prepared {
		panic("synth: Process called before Prepare")
	}

	n := numSamples
	for ch := range out {
		if len(out[ch]) < n {
			n = len(out[ch])
		}
	}
	if n < 0 {
		n = 0
	}

	// 1. Silence
	for ch := range out {
		buf := out[ch][:n]
		for i := range buf {
			buf[i] = 0
		}
	}

	// 2. Master switch freezes everything
	if !p.MasterEnabled {
		return
	}

	// 3. Triggers
	switch {
	case p.AlwaysOn && !e.prevAlwaysOn:
		e.noteOn()
	case !p.AlwaysOn && e.prevAlwaysOn:
		e.noteOff()
	case !p.AlwaysOn:
		for _, ev := range events {
			e.ProcessEvent(ev)
		}
	}
	e.prevAlwaysOn = p.AlwaysOn

	// 4. Block parameters
	e.osc1.SetFrequency(dsp.Clamp(p.Osc1Freq, dsp.MinOscFrequency, dsp.MaxOscFrequency))
	e.osc2.SetFrequency(dsp.Clamp(p.Osc2Freq, dsp.MinOscFrequency, dsp.MaxOscFrequency))
	e.osc1.SetWaveform(p.Osc1Wave)
	e.osc2.SetWaveform(p.Osc2Wave)
	oscMix := dsp.Clamp(p.OscMix, 0, 1)

	cutoff := p.FilterCutoff
	resonance := p.FilterResonance
	if !(resonance >= dsp.MinResonance) {
		resonance = dsp.MinResonance
	}
	mode := p.FilterType
	bypass := p.FilterBypass

	e.env.SetParams(p.Envelope())
	e.lfo.SetRate(p.LFORate)
	e.lfo.SetDepth(p.LFODepth)

	// 5. LFO moves once per block
	e.lfo.AdvanceBlock()

	// 6. Samples
	for i := 0; i < n; i++ {
		sample := mix.Oscillators(e.osc1.Value(), e.osc2.Value(), oscMix)

		e.filter.Configure(e.lfo.Cutoff(cutoff), resonance, mode)
		if !bypass {
			sample = e.filter.Process(sample)
		}

		sample *= e.env.Next()
		mix.Fanout(out, i, float32(sample))

		e.osc1.Advance()
		e.osc2.Advance()
	}
}

// ProcessContext renders the context's current block with its events
func (e *Engine) ProcessContext(ctx *process.Context, p param.Snapshot) {
	e.Process(ctx.Output, ctx.NumSamples(), p, ctx.Events())
}

// ProcessEvent applies one trigger immediately
func (e *Engine) ProcessEvent(ev midi.Event) {
	switch ev.Type {
	case midi.EventTypeNoteOn:
		e.noteOn()
	case midi.EventTypeNoteOff:
		e.noteOff()
	case midi.EventTypeHold:
		e.hold(ev.On)
	}
}

func (e *Engine) noteOn() {
	e.pendingRelease = false
	e.env.NoteOn()
}

func (e *Engine) noteOff() {
	if e.holding {
		e.pendingRelease = true
		return
	}
	e.env.NoteOff()
}

func (e *Engine) hold(on bool) {
	e.holding = on
	if !on && e.pendingRelease {
		e.pendingRelease = false
		e.env.NoteOff()
	}
}

// Phases returns both oscillator phases in radians
func (e *Engine) Phases() (osc1, osc2 float64) {
	return e.osc1.Phase(), e.osc2.Phase()
}

// LFOPhase returns the LFO phase in radians
func (e *Engine) LFOPhase() float64 {
	return e.lfo.Phase()
}

// EnvelopeStage returns the amplitude envelope stage
func (e *Engine) EnvelopeStage() envelope.Stage {
	return e.env.Stage()
}

// EnvelopeValue returns the most recent envelope gain
func (e *Engine) EnvelopeValue() float64 {
	return e.env.Value()
}

// Holding reports whether the hold latch is engaged
func (e *Engine) Holding() bool {
	return e.holding
}

// SampleRate returns the prepared sample rate
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// MaxBlockSize returns the prepared maximum block size
func (e *Engine) MaxBlockSize() int {
	return e.maxBlockSize
}

// Prepared reports whether Prepare has succeeded
func (e *Engine) Prepared() bool {
	return e.prepared
}

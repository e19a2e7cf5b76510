package param

import (
	"github.com/justyntemme/monosynth/pkg/dsp"
	"github.com/justyntemme/monosynth/pkg/dsp/envelope"
	"github.com/justyntemme/monosynth/pkg/dsp/filter"
	"github.com/justyntemme/monosynth/pkg/dsp/oscillator"
)

// Snapshot is a by-value copy of every parameter, taken once per block
type Snapshot struct {
	MasterEnabled bool

	Osc1Freq float64
	Osc2Freq float64
	Osc1Wave oscillator.Waveform
	Osc2Wave oscillator.Waveform
	OscMix   float64

	FilterType      filter.Mode
	FilterCutoff    float64
	FilterResonance float64
	FilterBypass    bool

	Attack  float64
	Decay   float64
	Sustain float64
	Release float64

	LFORate  float64
	LFODepth float64

	AlwaysOn bool
}

// DefaultSnapshot returns the parameter defaults
func DefaultSnapshot() Snapshot {
	env := envelope.DefaultParams()
	return Snapshot{
		MasterEnabled:   true,
		Osc1Freq:        dsp.DefaultOscFrequency,
		Osc2Freq:        dsp.DefaultOscFrequency,
		Osc1Wave:        oscillator.WaveformSine,
		Osc2Wave:        oscillator.WaveformSine,
		OscMix:          0.5,
		FilterType:      filter.ModeLowpass,
		FilterCutoff:    1000,
		FilterResonance: dsp.DefaultResonance,
		Attack:          env.Attack,
		Decay:           env.Decay,
		Sustain:         env.Sustain,
		Release:         env.Release,
		LFORate:         dsp.DefaultLFORate,
	}
}

// Envelope returns the ADSR settings carried by the snapshot
func (s Snapshot) Envelope() envelope.Params {
	return envelope.Params{
		Attack:  s.Attack,
		Decay:   s.Decay,
		Sustain: s.Sustain,
		Release: s.Release,
	}
}

// Snapshot reads every registered parameter with an atomic load. IDs that
// are not registered keep their default. Safe to call from the audio thread.
func (r *Registry) Snapshot() Snapshot {
	s := DefaultSnapshot()

	s.MasterEnabled = r.boolValue(MasterEnabled, s.MasterEnabled)
	s.Osc1Freq = r.plain(Osc1Freq, s.Osc1Freq)
	s.Osc2Freq = r.plain(Osc2Freq, s.Osc2Freq)
	s.Osc1Wave = oscillator.Waveform(r.index(Osc1Wave, int(s.Osc1Wave)))
	s.Osc2Wave = oscillator.Waveform(r.index(Osc2Wave, int(s.Osc2Wave)))
	s.OscMix = r.plain(OscMix, s.OscMix)

	s.FilterType = filter.Mode(r.index(FilterType, int(s.FilterType)))
	s.FilterCutoff = r.plain(FilterCutoff, s.FilterCutoff)
	s.FilterResonance = r.plain(FilterResonance, s.FilterResonance)
	s.FilterBypass = r.boolValue(FilterBypass, s.FilterBypass)

	s.Attack = r.plain(Attack, s.Attack)
	s.Decay = r.plain(Decay, s.Decay)
	s.Sustain = r.plain(Sustain, s.Sustain)
	s.Release = r.plain(Release, s.Release)

	s.LFORate = r.plain(LFORate, s.LFORate)
	s.LFODepth = r.plain(LFODepth, s.LFODepth)

	s.AlwaysOn = r.boolValue(AlwaysOn, s.AlwaysOn)
	return s
}

func (r *Registry) plain(id ID, fallback float64) float64 {
	if p := r.params[id]; p != nil {
		return p.GetPlainValue()
	}
	return fallback
}

func (r *Registry) index(id ID, fallback int) int {
	if p := r.params[id]; p != nil {
		return p.GetIndex()
	}
	return fallback
}

func (r *Registry) boolValue(id ID, fallback bool) bool {
	if p := r.params[id]; p != nil {
		return p.GetBool()
	}
	return fallback
}

package param

import (
	"github.com/justyntemme/monosynth/pkg/dsp"
	"github.com/justyntemme/monosynth/pkg/dsp/envelope"
)

// SynthParameters builds the full monosynth parameter set with its
// ranges and defaults
func SynthParameters() []*Parameter {
	env := envelope.DefaultParams()

	return []*Parameter{
		ToggleParameter(MasterEnabled, "Master", true).Bypass().Build(),

		FrequencyParameter(Osc1Freq, "Osc 1 Frequency", dsp.MinOscFrequency, dsp.MaxOscFrequency, dsp.DefaultOscFrequency).
			ShortName("Osc1 Hz").Build(),
		FrequencyParameter(Osc2Freq, "Osc 2 Frequency", dsp.MinOscFrequency, dsp.MaxOscFrequency, dsp.DefaultOscFrequency).
			ShortName("Osc2 Hz").Build(),
		Choice(Osc1Wave, "Osc 1 Waveform", WaveformOptions()).ShortName("Osc1 Wave").Build(),
		Choice(Osc2Wave, "Osc 2 Waveform", WaveformOptions()).ShortName("Osc2 Wave").Build(),
		MixParameter(OscMix, "Osc Mix", 0.5).ShortName("Mix").Build(),

		Choice(FilterType, "Filter Type", FilterModeOptions()).ShortName("Type").Build(),
		FrequencyParameter(FilterCutoff, "Filter Cutoff", dsp.MinFrequency, dsp.MaxFrequency, 1000).
			ShortName("Cutoff").Build(),
		ResonanceParameter(FilterResonance, "Filter Resonance", dsp.MinResonance, dsp.MaxResonance, dsp.DefaultResonance).
			ShortName("Reso").Build(),
		ToggleParameter(FilterBypass, "Filter Bypass", false).ShortName("Bypass").Build(),

		TimeParameter(Attack, "Attack", 0, dsp.MaxEnvelopeTime, env.Attack).Build(),
		TimeParameter(Decay, "Decay", 0, dsp.MaxEnvelopeTime, env.Decay).Build(),
		LevelParameter(Sustain, "Sustain", env.Sustain).Build(),
		TimeParameter(Release, "Release", 0, dsp.MaxEnvelopeTime, env.Release).Build(),

		RateParameter(LFORate, "LFO Rate", dsp.MinLFORate, dsp.MaxLFORate, dsp.DefaultLFORate).
			ShortName("Rate").Build(),
		DepthParameter(LFODepth, "LFO Depth", 0).ShortName("Depth").Build(),

		ToggleParameter(AlwaysOn, "Always On", false).ShortName("Drone").Build(),
	}
}

// NewSynthRegistry creates a registry holding SynthParameters
func NewSynthRegistry() *Registry {
	r := NewRegistry()
	// IDs are unique and in range, so Add cannot fail
	if err := r.Add(SynthParameters()...); err != nil {
		panic(err)
	}
	return r
}

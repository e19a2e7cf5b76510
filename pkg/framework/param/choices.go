package param

import (
	"github.com/justyntemme/monosynth/pkg/dsp/filter"
	"github.com/justyntemme/monosynth/pkg/dsp/oscillator"
)

// WaveformOptions lists the oscillator shapes as choice options
func WaveformOptions() []ChoiceOption {
	aliases := map[oscillator.Waveform][]string{
		oscillator.WaveformSine:     {"sin"},
		oscillator.WaveformSaw:      {"sawtooth", "ramp"},
		oscillator.WaveformSquare:   {"sqr", "pulse"},
		oscillator.WaveformTriangle: {"tri"},
	}

	options := make([]ChoiceOption, len(oscillator.WaveformNames))
	for i, name := range oscillator.WaveformNames {
		w := oscillator.Waveform(i)
		options[i] = ChoiceOption{Value: float64(i), Name: name, Aliases: aliases[w]}
	}
	return options
}

// FilterModeOptions lists the filter responses as choice options
func FilterModeOptions() []ChoiceOption {
	aliases := map[filter.Mode][]string{
		filter.ModeLowpass:  {"low pass", "lpf", "lp"},
		filter.ModeBandpass: {"band pass", "bpf", "bp"},
		filter.ModeHighpass: {"high pass", "hpf", "hp"},
	}

	options := make([]ChoiceOption, len(filter.ModeNames))
	for i, name := range filter.ModeNames {
		m := filter.Mode(i)
		options[i] = ChoiceOption{Value: float64(i), Name: name, Aliases: aliases[m]}
	}
	return options
}

package param

import (
	"fmt"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter
func Choice(id ID, name string, options []ChoiceOption) *Builder {
	// Create name list for formatter
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}

	// Create formatter
	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		// Fallback to index-based lookup for integer values
		index := int(value + 0.5)
		if index >= 0 && index < len(names) {
			return names[index]
		}
		return "Unknown"
	}

	// Create parser
	parser := func(str string) (float64, error) {
		normalizedStr := strings.TrimSpace(str)

		// Check each option and its aliases
		for _, opt := range options {
			if strings.EqualFold(normalizedStr, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(normalizedStr, alias) {
					return opt.Value, nil
				}
			}
		}

		return 0, fmt.Errorf("unknown option: %s", str)
	}

	// Determine range and steps
	minVal, maxVal := 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	b := New(id, name).
		Range(minVal, maxVal).
		Steps(int32(len(options) - 1)).
		Formatter(formatter, parser)
	b.param.Flags |= IsList
	if len(options) > 0 {
		b.Default(options[0].Value)
	}
	return b
}

// Common parameter helpers

// ToggleParameter creates an on/off switch
func ToggleParameter(id ID, name string, on bool) *Builder {
	b := New(id, name).
		Toggle().
		Formatter(OnOffFormatter, OnOffParser)
	if on {
		b.Default(1)
	}
	return b
}

// FrequencyParameter creates a standard frequency parameter
func FrequencyParameter(id ID, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("Hz").
		Formatter(FrequencyFormatter, FrequencyParser)
}

// TimeParameter creates an envelope time parameter in seconds
func TimeParameter(id ID, name string, minS, maxS, defaultS float64) *Builder {
	return New(id, name).
		Range(minS, maxS).
		Default(defaultS).
		Unit("s").
		Formatter(TimeFormatter, TimeParser)
}

// MixParameter creates a blend parameter stored as a 0-1 fraction
func MixParameter(id ID, name string, defaultVal float64) *Builder {
	return New(id, name).
		Range(0, 1).
		Default(defaultVal).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// LevelParameter creates a 0-1 level such as sustain
func LevelParameter(id ID, name string, defaultVal float64) *Builder {
	return MixParameter(id, name, defaultVal)
}

// DepthParameter creates a modulation depth parameter (0-1)
func DepthParameter(id ID, name string, defaultVal float64) *Builder {
	return MixParameter(id, name, defaultVal)
}

// ResonanceParameter creates a filter resonance parameter
func ResonanceParameter(id ID, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Formatter(func(v float64) string {
			return fmt.Sprintf("%.3f", v)
		}, nil)
}

// RateParameter creates a rate parameter (Hz) for LFOs
func RateParameter(id ID, name string, minHz, maxHz, defaultHz float64) *Builder {
	return New(id, name).
		Range(minHz, maxHz).
		Default(defaultHz).
		Unit("Hz").
		Formatter(func(v float64) string {
			if v < 1.0 {
				return fmt.Sprintf("%.3f Hz", v)
			}
			return fmt.Sprintf("%.2f Hz", v)
		}, FrequencyParser)
}

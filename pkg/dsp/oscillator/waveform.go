package oscillator

import (
	"math"
	"strings"
)

// Waveform selects the shape produced by Sample
type Waveform int

const (
	// WaveformSine produces a sine wave
	WaveformSine Waveform = iota
	// WaveformSaw produces a rising ramp from -1 to +1
	WaveformSaw
	// WaveformSquare produces +1 for the first half period and -1 for the second
	WaveformSquare
	// WaveformTriangle produces a triangle peaking at phase 0 and troughing at pi
	WaveformTriangle
)

// WaveformNames provides display names indexed by Waveform
var WaveformNames = []string{
	"Sine",
	"Saw",
	"Square",
	"Triangle",
}

// String returns the display name of the waveform
func (w Waveform) String() string {
	if w >= 0 && int(w) < len(WaveformNames) {
		return WaveformNames[w]
	}
	return "Unknown"
}

// ParseWaveform maps a name (case-insensitive) to a Waveform
func ParseWaveform(name string) (Waveform, bool) {
	name = strings.TrimSpace(name)
	for i, n := range WaveformNames {
		if strings.EqualFold(name, n) {
			return Waveform(i), true
		}
	}
	switch strings.ToLower(name) {
	case "sin":
		return WaveformSine, true
	case "sawtooth", "ramp":
		return WaveformSaw, true
	case "sqr", "pulse":
		return WaveformSquare, true
	case "tri":
		return WaveformTriangle, true
	}
	return WaveformSine, false
}

// Sample returns the waveform value at angle, in radians within [0, 2pi).
// Unknown selectors return 0 so a malformed index can never take down
// the audio thread.
func Sample(angle float64, w Waveform) float64 {
	switch w {
	case WaveformSine:
		return math.Sin(angle)
	case WaveformSaw:
		return angle/math.Pi - 1.0
	case WaveformSquare:
		if angle < math.Pi {
			return 1.0
		}
		return -1.0
	case WaveformTriangle:
		return math.Abs(angle/math.Pi-1.0)*2.0 - 1.0
	default:
		return 0.0
	}
}

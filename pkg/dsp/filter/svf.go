// Package filter provides digital signal processing filters
package filter

import (
	"math"
	"strings"

	"github.com/justyntemme/monosynth/pkg/dsp"
)

// Mode selects which SVF output Process returns
type Mode int

const (
	// ModeLowpass returns the lowpass output
	ModeLowpass Mode = iota
	// ModeBandpass returns the bandpass output
	ModeBandpass
	// ModeHighpass returns the highpass output
	ModeHighpass
)

// ModeNames provides display names indexed by Mode
var ModeNames = []string{
	"Lowpass",
	"Bandpass",
	"Highpass",
}

// String returns the display name of the mode
func (m Mode) String() string {
	if m >= 0 && int(m) < len(ModeNames) {
		return ModeNames[m]
	}
	return "Unknown"
}

// ParseMode maps a name or common abbreviation to a Mode
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass", "low pass", "lpf", "lp":
		return ModeLowpass, true
	case "bandpass", "band pass", "bpf", "bp":
		return ModeBandpass, true
	case "highpass", "high pass", "hpf", "hp":
		return ModeHighpass, true
	}
	return ModeLowpass, false
}

// SVF implements a state variable filter
// Provides simultaneous lowpass, bandpass and highpass outputs
// Zero-delay feedback topology for better analog modeling
type SVF struct {
	sampleRate float64
	mode       Mode

	// Filter parameters
	g float64 // frequency coefficient
	k float64 // damping coefficient (1/resonance)

	// State variables
	ic1eq float64 // integrator 1 state
	ic2eq float64 // integrator 2 state
}

// Outputs holds all filter outputs
type Outputs struct {
	Lowpass  float64
	Bandpass float64
	Highpass float64
}

// NewSVF creates a new state variable filter
func NewSVF(sampleRate float64) *SVF {
	s := &SVF{}
	s.Prepare(sampleRate)
	s.Configure(1000, dsp.DefaultResonance, ModeLowpass)
	return s
}

// Prepare sets the sample rate and clears the integrators
func (s *SVF) Prepare(sampleRate float64) {
	s.sampleRate = sampleRate
	s.Reset()
}

// Reset clears the filter state
func (s *SVF) Reset() {
	s.ic1eq = 0
	s.ic2eq = 0
}

// Configure recomputes the coefficients. Resonance must already be
// positive; the caller owns clamping it.
func (s *SVF) Configure(cutoff, resonance float64, mode Mode) {
	ratio := 0.0
	if s.sampleRate > 0 {
		ratio = cutoff / s.sampleRate
	}
	if ratio > dsp.MaxCutoffRatio {
		ratio = dsp.MaxCutoffRatio
	} else if ratio < 0 {
		ratio = 0
	}

	// Pre-warp the frequency for the bilinear transform
	s.g = math.Tan(math.Pi * ratio)
	s.k = 1.0 / resonance
	s.mode = mode
}

// Mode returns the active output mode
func (s *SVF) Mode() Mode {
	return s.mode
}

// ProcessSample processes a single sample and returns all outputs
func (s *SVF) ProcessSample(input float64) Outputs {
	// Compute common terms
	g := s.g
	k := s.k
	a1 := 1.0 / (1.0 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	// Compute outputs
	v3 := input - s.ic2eq
	v1 := a1*s.ic1eq + a2*v3
	v2 := s.ic2eq + a2*s.ic1eq + a3*v3

	// Update state
	s.ic1eq = 2.0*v1 - s.ic1eq
	s.ic2eq = 2.0*v2 - s.ic2eq

	return Outputs{
		Lowpass:  v2,
		Bandpass: v1,
		Highpass: input - k*v1 - v2,
	}
}

// Process filters one sample and returns the output for the active mode.
// An unknown mode passes the input through while still running the state.
func (s *SVF) Process(input float64) float64 {
	out := s.ProcessSample(input)
	switch s.mode {
	case ModeLowpass:
		return out.Lowpass
	case ModeBandpass:
		return out.Bandpass
	case ModeHighpass:
		return out.Highpass
	default:
		return input
	}
}

// ProcessBuffer filters buffer in place with the active mode - no allocations
func (s *SVF) ProcessBuffer(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(s.Process(float64(buffer[i])))
	}
}

// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common audio constants used throughout the DSP packages and the synth engine.
const (
	// Frequency ranges
	MinFrequency = 20.0    // 20 Hz
	MaxFrequency = 20000.0 // 20 kHz

	// Oscillator frequency range
	MinOscFrequency     = 50.0
	MaxOscFrequency     = 2000.0
	DefaultOscFrequency = 440.0

	// Resonance floor; an undamped state-variable filter blows up
	MinResonance     = 0.01
	MaxResonance     = 1.0
	DefaultResonance = 0.7071067811865476 // Butterworth response

	// LFO ranges
	MinLFORate     = 0.01 // Hz
	MaxLFORate     = 20.0 // Hz
	DefaultLFORate = 1.0

	// Envelope time range (in seconds)
	MaxEnvelopeTime = 5.0

	// Highest cutoff/sample-rate ratio handed to tan() in filter coefficients
	MaxCutoffRatio = 0.499

	// Channel counts
	Mono   = 1
	Stereo = 2

	// Common sample rates
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate96k  = 96000.0

	// Buffer sizes
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966
)

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package modulation provides low frequency modulation sources.
package modulation

import (
	"math"

	"github.com/justyntemme/monosynth/pkg/dsp"
	"github.com/justyntemme/monosynth/pkg/dsp/oscillator"
)

// LFO implements a sinusoidal Low Frequency Oscillator for cutoff modulation.
//
// The phase advances once per processed block rather than once per sample,
// so the value is constant across a block. This matches the block
// granularity of the engine's parameter snapshot.
type LFO struct {
	sampleRate float64

	// Parameters
	rate  float64 // Frequency in Hz
	depth float64 // Modulation depth (0-1)

	phase oscillator.Phase
}

// NewLFO creates a new LFO
func NewLFO(sampleRate float64) *LFO {
	lfo := &LFO{
		sampleRate: sampleRate,
		rate:       dsp.DefaultLFORate,
	}
	lfo.phase.SetIncrement(lfo.rate, sampleRate)
	return lfo
}

// SetSampleRate changes the sample rate, keeping the phase
func (l *LFO) SetSampleRate(sampleRate float64) {
	l.sampleRate = sampleRate
	l.phase.SetIncrement(l.rate, sampleRate)
}

// SetRate sets the LFO frequency in Hz
func (l *LFO) SetRate(hz float64) {
	l.rate = dsp.Clamp(hz, dsp.MinLFORate, dsp.MaxLFORate)
	l.phase.SetIncrement(l.rate, l.sampleRate)
}

// Rate returns the LFO frequency in Hz
func (l *LFO) Rate() float64 {
	return l.rate
}

// SetDepth sets the modulation depth (0-1)
func (l *LFO) SetDepth(depth float64) {
	l.depth = dsp.Clamp(depth, 0, 1)
}

// Depth returns the modulation depth
func (l *LFO) Depth() float64 {
	return l.depth
}

// Phase returns the current phase in radians
func (l *LFO) Phase() float64 {
	return l.phase.Angle()
}

// SetPhase sets the current phase in radians
func (l *LFO) SetPhase(angle float64) {
	l.phase.SetAngle(angle)
}

// Reset resets the LFO phase
func (l *LFO) Reset() {
	l.phase.Reset()
}

// AdvanceBlock moves the phase forward by a single increment. Called once
// per processed block regardless of the block length.
func (l *LFO) AdvanceBlock() {
	l.phase.Advance()
}

// Value returns the raw control value sin(phase) in [-1, 1]
func (l *LFO) Value() float64 {
	return math.Sin(l.phase.Angle())
}

// Cutoff returns cutoff modulated by the current LFO value and depth
func (l *LFO) Cutoff(cutoff float64) float64 {
	return ModulateCutoff(cutoff, l.Value(), l.depth)
}

// ModulateCutoff offsets cutoff proportionally to itself:
// cutoff + lfo*depth*cutoff, clamped to [20, 20000] Hz.
func ModulateCutoff(cutoff, lfo, depth float64) float64 {
	return dsp.Clamp(cutoff+lfo*depth*cutoff, dsp.MinFrequency, dsp.MaxFrequency)
}

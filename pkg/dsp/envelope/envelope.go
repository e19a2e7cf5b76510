// Package envelope provides envelope generators for audio synthesis
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageAttack:
		return "Attack"
	case StageDecay:
		return "Decay"
	case StageSustain:
		return "Sustain"
	case StageRelease:
		return "Release"
	default:
		return "Unknown"
	}
}

// Params holds the envelope configuration.
// Attack, Decay and Release are in seconds, Sustain is a level in [0, 1].
type Params struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// DefaultParams returns the envelope defaults
func DefaultParams() Params {
	return Params{
		Attack:  0.1,
		Decay:   0.1,
		Sustain: 0.8,
		Release: 0.5,
	}
}

// ADSR implements a linear Attack-Decay-Sustain-Release envelope generator.
//
// A stage time of zero completes the stage in a single sample. Rates are
// per-sample level steps; a rate of zero marks an instantaneous stage.
type ADSR struct {
	sampleRate float64
	params     Params

	attackRate  float64
	decayRate   float64
	releaseRate float64

	// State
	stage Stage
	value float64
}

// New creates a new ADSR envelope
func New(sampleRate float64) *ADSR {
	env := &ADSR{
		sampleRate: sampleRate,
		params:     DefaultParams(),
	}
	env.updateRates()
	return env
}

// SetSampleRate changes the sample rate and recomputes the rates
func (e *ADSR) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	e.updateRates()
}

// SetParams applies a new configuration. The current level is untouched,
// so changing parameters between blocks never steps the output.
func (e *ADSR) SetParams(p Params) {
	p.Attack = nonNegative(p.Attack)
	p.Decay = nonNegative(p.Decay)
	p.Sustain = math.Min(1, nonNegative(p.Sustain))
	p.Release = nonNegative(p.Release)

	if p == e.params {
		return
	}
	e.params = p
	e.updateRates()
}

// nonNegative clamps v to >= 0, mapping NaN to 0
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// Params returns the current configuration
func (e *ADSR) Params() Params {
	return e.params
}

// updateRates recalculates the per-sample steps
func (e *ADSR) updateRates() {
	e.attackRate = calcRate(1.0, e.params.Attack, e.sampleRate)
	e.decayRate = calcRate(1.0-e.params.Sustain, e.params.Decay, e.sampleRate)

	// Release ramps from wherever the level was when it started
	if e.stage == StageRelease {
		e.releaseRate = calcRate(e.value, e.params.Release, e.sampleRate)
	}
}

// calcRate returns the per-sample step covering distance in timeSeconds,
// or 0 when the stage is instantaneous
func calcRate(distance, timeSeconds, sampleRate float64) float64 {
	if timeSeconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return distance / (timeSeconds * sampleRate)
}

// NoteOn starts the attack stage from the current level
func (e *ADSR) NoteOn() {
	switch {
	case e.attackRate > 0:
		e.stage = StageAttack
	case e.decayRate > 0:
		e.value = 1.0
		e.stage = StageDecay
	default:
		e.value = e.params.Sustain
		e.stage = StageSustain
	}
}

// NoteOff starts the release stage
func (e *ADSR) NoteOff() {
	if e.stage == StageIdle {
		return
	}
	if e.params.Release > 0 && e.sampleRate > 0 {
		e.releaseRate = calcRate(e.value, e.params.Release, e.sampleRate)
		e.stage = StageRelease
		return
	}
	e.Reset()
}

// Reset immediately returns the envelope to idle
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0.0
}

// IsActive returns true if the envelope is generating output
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// Stage returns the current envelope stage
func (e *ADSR) Stage() Stage {
	return e.stage
}

// Value returns the most recent envelope level
func (e *ADSR) Value() float64 {
	return e.value
}

// Next generates the next envelope value
func (e *ADSR) Next() float64 {
	switch e.stage {
	case StageAttack:
		if e.attackRate <= 0 {
			e.value = 1.0
		} else {
			e.value += e.attackRate
		}
		if e.value >= 1.0 {
			e.value = 1.0
			e.stage = StageDecay
		}

	case StageDecay:
		if e.value <= e.params.Sustain {
			// Sustain was raised above the level mid-decay
			e.stage = StageSustain
			e.value = e.glide(e.value, e.params.Sustain)
			break
		}
		if e.decayRate <= 0 {
			e.value = e.params.Sustain
		} else {
			e.value -= e.decayRate
		}
		if e.value <= e.params.Sustain {
			e.value = e.params.Sustain
			e.stage = StageSustain
		}

	case StageSustain:
		e.value = e.glide(e.value, e.params.Sustain)

	case StageRelease:
		if e.releaseRate <= 0 {
			e.value = 0
		} else {
			e.value -= e.releaseRate
		}
		if e.value <= 0.0 {
			e.value = 0.0
			e.stage = StageIdle
		}

	case StageIdle:
		e.value = 0.0
	}

	return e.value
}

// glide moves a sustaining level toward a changed sustain target at the
// decay slope, snapping when the decay is instantaneous
func (e *ADSR) glide(value, target float64) float64 {
	if value == target || e.params.Decay <= 0 || e.sampleRate <= 0 {
		return target
	}
	step := 1.0 / (e.params.Decay * e.sampleRate)
	if value < target {
		return math.Min(value+step, target)
	}
	return math.Max(value-step, target)
}

// Process fills buffer with envelope values - no allocations
func (e *ADSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(e.Next())
	}
}

// ProcessMultiply multiplies buffer by envelope - no allocations
func (e *ADSR) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= float32(e.Next())
	}
}

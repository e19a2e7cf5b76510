// Package oscillator provides audio oscillators for synthesis
package oscillator

// Oscillator pairs a phase accumulator with a waveform selector
type Oscillator struct {
	sampleRate float64
	frequency  float64
	waveform   Waveform
	phase      Phase
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	o := &Oscillator{
		sampleRate: sampleRate,
		frequency:  440.0,
		waveform:   WaveformSine,
	}
	o.phase.SetIncrement(o.frequency, sampleRate)
	return o
}

// SetSampleRate changes the sample rate and recomputes the increment.
// The phase is kept.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	o.phase.SetIncrement(o.frequency, sampleRate)
}

// SetFrequency sets the oscillator frequency. Negative or NaN values stop
// the phase.
func (o *Oscillator) SetFrequency(freq float64) {
	if !(freq >= 0) {
		freq = 0
	}
	o.frequency = freq
	o.phase.SetIncrement(freq, o.sampleRate)
}

// Frequency returns the oscillator frequency
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetWaveform sets the waveform
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// Waveform returns the selected waveform
func (o *Oscillator) Waveform() Waveform {
	return o.waveform
}

// Phase returns the current phase in radians
func (o *Oscillator) Phase() float64 {
	return o.phase.Angle()
}

// SetPhase sets the oscillator phase in radians
func (o *Oscillator) SetPhase(angle float64) {
	o.phase.SetAngle(angle)
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase.Reset()
}

// Value returns the sample at the current phase without advancing
func (o *Oscillator) Value() float64 {
	return Sample(o.phase.Angle(), o.waveform)
}

// Advance moves the phase forward by one sample
func (o *Oscillator) Advance() {
	o.phase.Advance()
}

// Next returns the current sample and advances the phase
func (o *Oscillator) Next() float64 {
	v := o.Value()
	o.phase.Advance()
	return v
}

// Process fills buffer with the oscillator output - no allocations
func (o *Oscillator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(o.Next())
	}
}

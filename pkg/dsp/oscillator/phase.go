package oscillator

import "math"

const twoPi = 2.0 * math.Pi

// Increment returns the per-sample phase increment in radians
func Increment(frequency, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return twoPi * frequency / sampleRate
}

// Phase is a radian phase accumulator kept within [0, 2pi)
type Phase struct {
	angle float64
	delta float64
}

// Angle returns the current phase in radians
func (p *Phase) Angle() float64 {
	return p.angle
}

// Delta returns the per-sample increment
func (p *Phase) Delta() float64 {
	return p.delta
}

// SetIncrement recomputes the increment for frequency at sampleRate
func (p *Phase) SetIncrement(frequency, sampleRate float64) {
	p.delta = Increment(frequency, sampleRate)
}

// SetAngle sets the phase, wrapping it into [0, 2pi)
func (p *Phase) SetAngle(angle float64) {
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	p.angle = angle
}

// Reset returns the phase to 0, keeping the increment
func (p *Phase) Reset() {
	p.angle = 0
}

// Advance adds one increment and wraps
func (p *Phase) Advance() {
	p.angle += p.delta
	if p.angle >= twoPi {
		p.angle -= twoPi
		// Only reachable when the increment itself is >= 2pi
		if p.angle >= twoPi {
			p.angle = math.Mod(p.angle, twoPi)
		}
	}
}

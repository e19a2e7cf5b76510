package gain

import "github.com/justyntemme/monosynth/pkg/dsp"

// DCBlockerCutoff is the default corner frequency of the DC blocker in Hz.
const DCBlockerCutoff = 10.0

// DCBlocker removes DC offset with a first-order highpass:
// y[n] = x[n] - x[n-1] + R*y[n-1]
type DCBlocker struct {
	x1 []float32
	y1 []float32

	coefficient float32
}

// NewDCBlocker creates a DC blocker for the given channel count.
func NewDCBlocker(channels int, cutoffHz, sampleRate float64) *DCBlocker {
	dc := &DCBlocker{
		x1: make([]float32, channels),
		y1: make([]float32, channels),
	}
	dc.SetCutoff(cutoffHz, sampleRate)
	return dc
}

// SetCutoff updates the corner frequency. R is kept in [0.9, 0.999] for
// stability.
func (dc *DCBlocker) SetCutoff(cutoffHz, sampleRate float64) {
	r := 1.0 - dsp.TwoPi*cutoffHz/sampleRate
	dc.coefficient = float32(dsp.Clamp(r, 0.9, 0.999))
}

// Process filters one sample on one channel. Out of range channels pass
// through.
func (dc *DCBlocker) Process(input float32, channel int) float32 {
	if channel >= len(dc.x1) {
		return input
	}

	output := input - dc.x1[channel] + dc.coefficient*dc.y1[channel]
	dc.x1[channel] = input
	dc.y1[channel] = output
	return output
}

// ProcessChannels filters each buffer in place, one state per channel.
func (dc *DCBlocker) ProcessChannels(buffers [][]float32) {
	for ch, buffer := range buffers {
		if ch >= len(dc.x1) {
			return
		}
		for i := range buffer {
			buffer[i] = dc.Process(buffer[i], ch)
		}
	}
}

// Reset clears the filter state.
func (dc *DCBlocker) Reset() {
	for i := range dc.x1 {
		dc.x1[i] = 0
		dc.y1[i] = 0
	}
}

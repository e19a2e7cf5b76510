// Package mix provides audio mixing and crossfading operations.
package mix

// Headroom is the fixed gain applied after the two oscillators are summed,
// so two in-phase full-scale oscillators stay well below clipping.
const Headroom = 0.15

// Crossfade performs a linear crossfade.
// position: 0.0 = 100% a, 1.0 = 100% b
func Crossfade(a, b, position float64) float64 {
	return a*(1.0-position) + b*position
}

// Oscillators mixes two oscillator samples and applies the headroom gain.
// mix: 0.0 = oscillator 1 only, 1.0 = oscillator 2 only
func Oscillators(osc1, osc2, mix float64) float64 {
	return Crossfade(osc1, osc2, mix) * Headroom
}

// CrossfadeBuffer performs a linear crossfade between two buffers into dst.
// position: 0.0 = 100% a, 1.0 = 100% b
func CrossfadeBuffer(a, b []float32, position float32, dst []float32) {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	if len(dst) < length {
		length = len(dst)
	}

	gainA := 1.0 - position
	gainB := position

	for i := 0; i < length; i++ {
		dst[i] = a[i]*gainA + b[i]*gainB
	}
}

// Fanout writes the same sample to index i of every channel.
func Fanout(channels [][]float32, i int, sample float32) {
	for ch := range channels {
		channels[ch][i] = sample
	}
}

// FanoutBuffer copies a mono buffer into every channel.
func FanoutBuffer(channels [][]float32, mono []float32) {
	for ch := range channels {
		copy(channels[ch], mono)
	}
}

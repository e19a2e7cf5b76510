// Package gain provides the output stage applied to rendered audio: level
// trim, peak normalization and fades.
package gain

import (
	"math"
)

// MinDB is the floor returned for silent or negative amplitudes.
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// ApplyDb scales every channel by db decibels.
func ApplyDb(channels [][]float32, db float64) {
	g := float32(DbToLinear(db))
	for _, ch := range channels {
		ApplyBuffer(ch, g)
	}
}

// Fade applies a linear ramp from startGain to endGain across the buffer.
func Fade(buffer []float32, startGain, endGain float32) {
	if len(buffer) == 0 {
		return
	}

	steps := float32(len(buffer) - 1)
	if steps <= 0 {
		buffer[0] *= startGain
		return
	}

	delta := (endGain - startGain) / steps
	g := startGain
	for i := range buffer {
		buffer[i] *= g
		g += delta
	}
}

// FadeOut ramps the last n frames of every channel down to silence.
// n is clamped to the channel length.
func FadeOut(channels [][]float32, n int) {
	for _, ch := range channels {
		m := n
		if m > len(ch) {
			m = len(ch)
		}
		if m <= 0 {
			continue
		}
		Fade(ch[len(ch)-m:], 1, 0)
	}
}

// Peak returns the largest absolute finite sample across all channels.
func Peak(channels [][]float32) float64 {
	var peak float64
	for _, ch := range channels {
		for _, s := range ch {
			v := math.Abs(float64(s))
			if v > peak && !math.IsInf(v, 0) {
				peak = v
			}
		}
	}
	return peak
}

// Normalize scales all channels so their common peak sits at targetDb and
// returns the gain applied in decibels. Silent input is left untouched and
// reports 0.
func Normalize(channels [][]float32, targetDb float64) float64 {
	peak := Peak(channels)
	if peak == 0 {
		return 0
	}

	db := targetDb - LinearToDb(peak)
	ApplyDb(channels, db)
	return db
}

// HardClip limits input to [-threshold, threshold].
func HardClip(input, threshold float32) float32 {
	if input > threshold {
		return threshold
	}
	if input < -threshold {
		return -threshold
	}
	return input
}

// HardClipBuffer hard clips every sample and reports how many were changed.
func HardClipBuffer(buffer []float32, threshold float32) int {
	clipped := 0
	for i, s := range buffer {
		c := HardClip(s, threshold)
		if c != s {
			buffer[i] = c
			clipped++
		}
	}
	return clipped
}

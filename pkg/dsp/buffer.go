// Package dsp provides digital signal processing utilities for audio
package dsp

// Buffer utilities for common audio operations

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// ClearChannels zeroes the first n samples of every channel - no allocations
func ClearChannels(channels [][]float32, n int) {
	for ch := range channels {
		buf := channels[ch]
		if n < len(buf) {
			buf = buf[:n]
		}
		Clear(buf)
	}
}

// Peak returns the largest absolute sample value in the buffer
func Peak(buffer []float32) float32 {
	var peak float32
	for _, s := range buffer {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

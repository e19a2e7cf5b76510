// Package analysis measures rendered synth output.
//
// It covers the checks the offline renderer reports after a run:
//
// Spectral Analysis:
//   - FFT backed by github.com/ktye/fft with Hann, Hamming and Blackman windows
//   - Spectrum of a whole buffer with power-of-two padding
//   - Peak frequency with parabolic bin interpolation
//
// Level Metering:
//   - Peak meter with hold and decay
//   - Windowed RMS meter
//
// Stereo Field:
//   - Correlation meter for the fanned-out channels
//
// Example usage:
//
//	spec, err := analysis.NewSpectrum(out[0], 48000, analysis.HannWindow)
//	if err != nil {
//	    return err
//	}
//	freq, level := spec.PeakFrequency(20, 20000)
package analysis

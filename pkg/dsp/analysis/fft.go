package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// ErrEmptyInput is returned when a transform is requested for no samples.
var ErrEmptyInput = errors.New("analysis: empty input")

// WindowFunc represents a window function type
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	HammingWindow
	BlackmanWindow
)

func (w WindowFunc) String() string {
	switch w {
	case RectangularWindow:
		return "rectangular"
	case HannWindow:
		return "hann"
	case HammingWindow:
		return "hamming"
	case BlackmanWindow:
		return "blackman"
	default:
		return "unknown"
	}
}

// FFT performs windowed forward transforms of real input.
type FFT struct {
	size       int
	window     WindowFunc
	windowData []float64
	windowSum  float64
	fft        fft.FFT
	buf        []complex128
	magnitude  []float64
	phase      []float64
}

// NewFFT creates a new FFT processor. size is rounded up to a power of two.
func NewFFT(size int, window WindowFunc) (*FFT, error) {
	return newFFT(size, size, window)
}

// newFFT builds a transform of NextPowerOfTwo(size) points whose window
// covers only the first windowLen of them, for zero-padded input.
func newFFT(size, windowLen int, window WindowFunc) (*FFT, error) {
	if size < 1 || windowLen < 1 {
		return nil, ErrEmptyInput
	}
	windowLen = min(windowLen, size)
	size = NextPowerOfTwo(size)

	t, err := fft.New(size)
	if err != nil {
		return nil, err
	}

	f := &FFT{
		size:       size,
		window:     window,
		windowData: make([]float64, size),
		fft:        t,
		buf:        make([]complex128, size),
		magnitude:  make([]float64, size/2+1),
		phase:      make([]float64, size/2+1),
	}

	// Pre-calculate window coefficients
	f.calculateWindow(windowLen)

	return f, nil
}

// Size returns the transform length.
func (f *FFT) Size() int {
	return f.size
}

func (f *FFT) calculateWindow(length int) {
	n := float64(length)

	for i := range f.windowData[:length] {
		x := 2.0 * math.Pi * float64(i) / (n - 1.0)
		var w float64
		switch f.window {
		case HannWindow:
			w = 0.5 * (1.0 - math.Cos(x))
		case HammingWindow:
			w = 0.54 - 0.46*math.Cos(x)
		case BlackmanWindow:
			w = math.Max(0, 0.42-0.5*math.Cos(x)+0.08*math.Cos(2*x))
		default:
			w = 1.0
		}
		if length == 1 {
			w = 1.0 // single-point windows collapse to 1
		}
		f.windowData[i] = w
	}

	f.windowSum = 0
	for _, w := range f.windowData {
		f.windowSum += w
	}
}

// Forward transforms input, zero padded to Size. Magnitudes are scaled so a
// full-scale sine centred on a bin reads as its amplitude. The returned
// slices are reused by the next call.
func (f *FFT) Forward(input []float32) (magnitude, phase []float64) {
	for i := range f.buf {
		if i < len(input) {
			f.buf[i] = complex(float64(input[i])*f.windowData[i], 0)
		} else {
			f.buf[i] = 0
		}
	}

	f.buf = f.fft.Transform(f.buf)

	scale := 2.0 / f.windowSum
	for i := range f.magnitude {
		f.magnitude[i] = cmplx.Abs(f.buf[i]) * scale
		f.phase[i] = cmplx.Phase(f.buf[i])
	}
	// DC and Nyquist have no mirrored bin
	f.magnitude[0] /= 2
	if f.size > 1 {
		f.magnitude[f.size/2] /= 2
	}

	return f.magnitude, f.phase
}

// GetFrequencyBin returns the frequency corresponding to a given FFT bin
func (f *FFT) GetFrequencyBin(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// ToDB converts a linear magnitude to decibels, floored at -120 dB.
func ToDB(mag float64) float64 {
	if mag <= 1e-6 {
		return -120.0
	}
	return 20.0 * math.Log10(mag)
}

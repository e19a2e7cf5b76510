package analysis

import (
	"math"
)

// Spectrum is the magnitude spectrum of a rendered buffer.
type Spectrum struct {
	SampleRate float64
	Magnitude  []float64
	binWidth   float64
}

// NewSpectrum transforms the whole of samples in one window, zero padded to
// a power of two.
func NewSpectrum(samples []float32, sampleRate float64, window WindowFunc) (*Spectrum, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	f, err := newFFT(len(samples), len(samples), window)
	if err != nil {
		return nil, err
	}

	mag, _ := f.Forward(samples)

	return &Spectrum{
		SampleRate: sampleRate,
		Magnitude:  append([]float64(nil), mag...),
		binWidth:   sampleRate / float64(f.Size()),
	}, nil
}

// BinWidth returns the frequency spacing between bins.
func (s *Spectrum) BinWidth() float64 {
	return s.binWidth
}

// GetFrequencyForBin returns the centre frequency of bin.
func (s *Spectrum) GetFrequencyForBin(bin int) float64 {
	return float64(bin) * s.binWidth
}

// GetBinForFrequency returns the bin nearest to freq.
func (s *Spectrum) GetBinForFrequency(freq float64) int {
	return int(math.Round(freq / s.binWidth))
}

func (s *Spectrum) binRange(minFreq, maxFreq float64) (int, int) {
	lo := s.GetBinForFrequency(minFreq)
	hi := s.GetBinForFrequency(maxFreq)
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.Magnitude) {
		hi = len(s.Magnitude) - 1
	}
	return lo, hi
}

// PeakFrequency finds the strongest component between minFreq and maxFreq.
// The frequency is refined by fitting a parabola through the peak bin and
// its neighbours.
func (s *Spectrum) PeakFrequency(minFreq, maxFreq float64) (freq, magnitude float64) {
	lo, hi := s.binRange(minFreq, maxFreq)
	if hi < lo {
		return 0, 0
	}

	peak := lo
	for i := lo; i <= hi; i++ {
		if s.Magnitude[i] > s.Magnitude[peak] {
			peak = i
		}
	}

	offset := 0.0
	if peak > 0 && peak < len(s.Magnitude)-1 {
		a, b, c := s.Magnitude[peak-1], s.Magnitude[peak], s.Magnitude[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}

	return (float64(peak) + offset) * s.binWidth, s.Magnitude[peak]
}

// BandEnergy sums the squared magnitudes between minFreq and maxFreq.
func (s *Spectrum) BandEnergy(minFreq, maxFreq float64) float64 {
	lo, hi := s.binRange(minFreq, maxFreq)

	energy := 0.0
	for i := lo; i <= hi; i++ {
		energy += s.Magnitude[i] * s.Magnitude[i]
	}
	return energy
}

// Centroid returns the magnitude-weighted mean frequency. A low-passed
// render has a lower centroid than the raw oscillators.
func (s *Spectrum) Centroid() float64 {
	var num, den float64
	for i, m := range s.Magnitude {
		num += s.GetFrequencyForBin(i) * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

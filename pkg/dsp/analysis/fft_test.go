package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(n int, freq, amp, sampleRate float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2.0*math.Pi*freq*float64(i)/sampleRate))
	}
	return out
}

func TestFFT(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		window WindowFunc
	}{
		{"Rectangular 256", 256, RectangularWindow},
		{"Hann 512", 512, HannWindow},
		{"Hamming 1024", 1024, HammingWindow},
		{"Blackman 2048", 2048, BlackmanWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fft, err := NewFFT(tt.size, tt.window)
			if err != nil {
				t.Fatal(err)
			}

			freq := 440.0
			sampleRate := 44100.0
			magnitude, _ := fft.Forward(sine(tt.size, freq, 1, sampleRate))

			maxMag := 0.0
			maxBin := 0
			for i, mag := range magnitude {
				if mag > maxMag {
					maxMag = mag
					maxBin = i
				}
			}

			peakFreq := fft.GetFrequencyBin(maxBin, sampleRate)
			tolerance := sampleRate / float64(tt.size) // One bin width

			if math.Abs(peakFreq-freq) > tolerance {
				t.Errorf("Peak frequency mismatch: expected %f Hz, got %f Hz", freq, peakFreq)
			}
		})
	}
}

func TestFFTAmplitudeScaling(t *testing.T) {
	// 48 kHz / 1024 puts bin 32 at exactly 1500 Hz
	fft, err := NewFFT(1024, HannWindow)
	if err != nil {
		t.Fatal(err)
	}

	magnitude, _ := fft.Forward(sine(1024, 1500, 0.15, 48000))
	if math.Abs(magnitude[32]-0.15) > 0.005 {
		t.Errorf("bin 32 magnitude = %f, want ~0.15", magnitude[32])
	}
}

func TestFFTDC(t *testing.T) {
	fft, err := NewFFT(64, RectangularWindow)
	if err != nil {
		t.Fatal(err)
	}

	dc := make([]float32, 64)
	for i := range dc {
		dc[i] = 0.5
	}

	magnitude, _ := fft.Forward(dc)
	if math.Abs(magnitude[0]-0.5) > 1e-9 {
		t.Errorf("DC magnitude = %f, want 0.5", magnitude[0])
	}
	for i := 1; i < len(magnitude); i++ {
		if magnitude[i] > 1e-9 {
			t.Fatalf("bin %d = %g, want 0", i, magnitude[i])
		}
	}
}

func TestFFTPadding(t *testing.T) {
	fft, err := NewFFT(1000, HannWindow)
	if err != nil {
		t.Fatal(err)
	}
	if fft.Size() != 1024 {
		t.Errorf("Size() = %d, want 1024", fft.Size())
	}

	// Short input is zero padded
	magnitude, phase := fft.Forward(sine(100, 1000, 1, 48000))
	if len(magnitude) != 513 || len(phase) != 513 {
		t.Errorf("got %d bins, want 513", len(magnitude))
	}

	if _, err := NewFFT(0, HannWindow); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("NewFFT(0) error = %v, want ErrEmptyInput", err)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {512, 512}, {513, 1024},
	}
	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToDB(t *testing.T) {
	if got := ToDB(1); got != 0 {
		t.Errorf("ToDB(1) = %f", got)
	}
	if got := ToDB(0.1); math.Abs(got+20) > 1e-9 {
		t.Errorf("ToDB(0.1) = %f, want -20", got)
	}
	if got := ToDB(0); got != -120 {
		t.Errorf("ToDB(0) = %f, want floor", got)
	}
}

func TestWindowString(t *testing.T) {
	if HannWindow.String() != "hann" || WindowFunc(99).String() != "unknown" {
		t.Error("unexpected window names")
	}
}

func BenchmarkFFT(b *testing.B) {
	fft, err := NewFFT(2048, HannWindow)
	if err != nil {
		b.Fatal(err)
	}
	input := sine(2048, 440, 1, 48000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fft.Forward(input)
	}
}

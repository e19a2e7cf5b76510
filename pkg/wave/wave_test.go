package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]int16{1, -1, 2, -2, 3, -3}); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 3 || w.SampleCount() != 6 || w.Channels() != 2 {
		t.Errorf("frames/samples/channels = %d/%d/%d", w.Frames(), w.SampleCount(), w.Channels())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	if len(data) != 44+12 {
		t.Fatalf("file is %d bytes, want 56", len(data))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", le.Uint32(data[4:]), 36 + 12},
		{"fmt size", le.Uint32(data[16:]), 16},
		{"format", uint32(le.Uint16(data[20:])), 1},
		{"channels", uint32(le.Uint16(data[22:])), 2},
		{"sample rate", le.Uint32(data[24:]), 48000},
		{"byte rate", le.Uint32(data[28:]), 48000 * 4},
		{"block align", uint32(le.Uint16(data[32:])), 4},
		{"bits", uint32(le.Uint16(data[34:])), 16},
		{"data size", le.Uint32(data[40:]), 12},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	samples := make([]int16, 6)
	for i := range samples {
		samples[i] = int16(le.Uint16(data[44+2*i:]))
	}
	if diff := cmp.Diff([]int16{1, -1, 2, -2, 3, -3}, samples); diff != "" {
		t.Errorf("sample data mismatch (-want +got):\n%s", diff)
	}

	h, err := DecodeHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := Header{Channels: 2, SampleRate: 48000, BitsPerSample: 16, DataSize: 12}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("DecodeHeader() mismatch (-want +got):\n%s", diff)
	}
	if h.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", h.Frames())
	}
}

func TestWriteLargeBuffer(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 44100, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Spans several internal chunks
	p := make([]int16, 5000)
	for i := range p {
		p[i] = int16(i)
	}
	w.Write(p)
	w.Close()

	data := buf.Bytes()[44:]
	if len(data) != 10000 {
		t.Fatalf("data is %d bytes, want 10000", len(data))
	}
	for _, i := range []int{0, 2047, 2048, 4999} {
		if got := int16(binary.LittleEndian.Uint16(data[2*i:])); got != int16(i) {
			t.Errorf("sample %d = %d", i, got)
		}
	}
}

func TestWriteFloat(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}

	left := []float32{0, 0.5, 1.5, float32(math.NaN())}
	right := []float32{-0.5, -1, 0.25}
	if err := w.WriteFloat([][]float32{left, right}, 10); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 3 {
		t.Errorf("Frames() = %d, want shortest channel 3", w.Frames())
	}

	if err := w.WriteFloat([][]float32{left}, 1); !errors.Is(err, ErrChannelCount) {
		t.Errorf("mono write to stereo writer error = %v", err)
	}
	w.Close()

	got := make([]int16, 6)
	for i := range got {
		got[i] = int16(binary.LittleEndian.Uint16(buf.Bytes()[44+2*i:]))
	}
	want := []int16{0, -16384, 16384, -32767, 32767, 8192}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("interleaved samples mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-2, -32767},
		{0.15, 4915},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), 32767},
	}
	for _, tt := range tests {
		if got := Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInvalidChannels(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, 48000, 0); !errors.Is(err, ErrChannelCount) {
		t.Errorf("NewWriter(0 channels) error = %v", err)
	}
	if _, err := NewFile(filepath.Join(t.TempDir(), "x.wav"), 48000, 0); !errors.Is(err, ErrChannelCount) {
		t.Errorf("NewFile(0 channels) error = %v", err)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := NewFile(path, 22050, 1)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]int16{100, 200})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	h, err := DecodeHeader(f)
	if err != nil {
		t.Fatal(err)
	}
	if h.SampleRate != 22050 || h.Channels != 1 || h.Frames() != 2 {
		t.Errorf("header = %+v", h)
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	if _, err := DecodeHeader(bytes.NewReader([]byte("RIFF"))); err == nil {
		t.Error("short header accepted")
	}
	junk := bytes.Repeat([]byte{'x'}, 44)
	if _, err := DecodeHeader(bytes.NewReader(junk)); !errors.Is(err, ErrNotWave) {
		t.Errorf("junk header error = %v", err)
	}
}

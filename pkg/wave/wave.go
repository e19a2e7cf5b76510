// Package wave writes 16-bit PCM wave files.
package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrChannelCount is returned for channel counts a wave header cannot carry.
var ErrChannelCount = errors.New("wave: invalid channel count")

// ErrNotWave is returned by DecodeHeader for input that is not a PCM wave file.
var ErrNotWave = errors.New("wave: not a 16-bit PCM wave file")

// A Writer writes samples to a wave file. Samples are buffered until Close,
// which writes the header followed by the data.
type Writer struct {
	w           io.WriteCloser
	sampleRate  int
	sampleCount int // samples across all channels
	chanCount   uint16
	bb          bytes.Buffer
	frame       []int16
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newWriter(w io.WriteCloser, sampleRate, channels int) (*Writer, error) {
	if channels < 1 || channels > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrChannelCount, channels)
	}
	return &Writer{
		w:          w,
		sampleRate: sampleRate,
		chanCount:  uint16(channels),
		frame:      make([]int16, channels),
	}, nil
}

// NewWriter creates a new Writer with the given sample rate and channel
// count. Close must be called when done writing samples to finalize the
// wave data. Close does not close w.
func NewWriter(w io.Writer, sampleRate, channels int) (*Writer, error) {
	return newWriter(nopCloser{Writer: w}, sampleRate, channels)
}

// NewFile creates a new wave file at the given path. Close must be called
// when done writing samples to finalize the wave file.
func NewFile(path string, sampleRate, channels int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := newWriter(f, sampleRate, channels)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

const (
	sampleSize = 2
	headerSize = 0x2C
)

func (w *Writer) header() [headerSize]byte {
	dataSize := sampleSize * w.sampleCount
	frameSize := sampleSize * uint32(w.chanCount)
	h := [headerSize]byte{
		'R', 'I', 'F', 'F',
		0, 0, 0, 0, //        length of rest of file
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ',
		16, 0, 0, 0, //       size of fmt chunk
		1, 0, //              uncompressed format
		0, 0, //              channel count
		0, 0, 0, 0, //        sample rate
		0, 0, 0, 0, //        bytes per second
		0, 0, //              bytes per sample frame
		sampleSize * 8, 0, // bits per sample
		'd', 'a', 't', 'a',
		0, 0, 0, 0, //        size of sample data
		// ...                sample data
	}

	binary.LittleEndian.PutUint32(h[0x04:], uint32(len(h)-8+dataSize))
	binary.LittleEndian.PutUint16(h[0x16:], w.chanCount)
	binary.LittleEndian.PutUint32(h[0x18:], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(h[0x1C:], uint32(w.sampleRate)*frameSize)
	binary.LittleEndian.PutUint16(h[0x20:], uint16(frameSize))
	binary.LittleEndian.PutUint32(h[0x28:], uint32(dataSize))
	return h
}

// Channels returns the channel count.
func (w *Writer) Channels() int {
	return int(w.chanCount)
}

// SampleCount returns the number of samples written across all channels.
func (w *Writer) SampleCount() int {
	return w.sampleCount
}

// Frames returns the number of sample frames written.
func (w *Writer) Frames() int {
	return w.sampleCount / int(w.chanCount)
}

// Write appends interleaved samples.
func (w *Writer) Write(p []int16) (n int, err error) {
	var buf [4096]byte

	for rest := p; len(rest) > 0; {
		n := min(len(rest), len(buf)/sampleSize)
		for i, s := range rest[:n] {
			binary.LittleEndian.PutUint16(buf[i*sampleSize:], uint16(s))
		}
		w.bb.Write(buf[:n*sampleSize])
		rest = rest[n:]
	}

	w.sampleCount += len(p)
	return len(p), nil
}

// WriteFloat appends the first n frames of planar float samples, one slice
// per channel. Samples are clipped to [-1, 1] and NaN is written as 0.
func (w *Writer) WriteFloat(channels [][]float32, n int) error {
	if len(channels) != int(w.chanCount) {
		return fmt.Errorf("%w: got %d channels, writer has %d", ErrChannelCount, len(channels), w.chanCount)
	}
	for _, ch := range channels {
		n = min(n, len(ch))
	}

	for i := 0; i < n; i++ {
		for ch := range channels {
			w.frame[ch] = Quantize(channels[ch][i])
		}
		w.Write(w.frame)
	}
	return nil
}

// Quantize converts a float sample to 16-bit PCM.
func Quantize(s float32) int16 {
	if s != s {
		return 0
	}
	if s >= 1 {
		return math.MaxInt16
	}
	if s <= -1 {
		return -math.MaxInt16
	}
	return int16(math.Round(float64(s) * math.MaxInt16))
}

// Close finalizes the wave file. It must be called when done writing samples.
func (w *Writer) Close() error {
	hdr := w.header()
	if _, err := w.w.Write(hdr[:]); err != nil {
		w.w.Close()
		return fmt.Errorf("write wave header: %w", err)
	}
	if _, err := w.w.Write(w.bb.Bytes()); err != nil {
		w.w.Close()
		return fmt.Errorf("write wave data: %w", err)
	}

	w.bb.Reset()
	w.sampleCount = 0

	return w.w.Close()
}

// Header describes a decoded wave header.
type Header struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataSize      int
}

// Frames returns the number of sample frames in the data chunk.
func (h Header) Frames() int {
	frame := h.Channels * h.BitsPerSample / 8
	if frame == 0 {
		return 0
	}
	return h.DataSize / frame
}

// DecodeHeader reads the canonical 44-byte header written by Writer.
func DecodeHeader(r io.Reader) (Header, error) {
	var h [headerSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return Header{}, fmt.Errorf("read wave header: %w", err)
	}

	if string(h[0:4]) != "RIFF" || string(h[8:12]) != "WAVE" ||
		string(h[12:16]) != "fmt " || string(h[36:40]) != "data" ||
		binary.LittleEndian.Uint16(h[0x14:]) != 1 {
		return Header{}, ErrNotWave
	}

	return Header{
		Channels:      int(binary.LittleEndian.Uint16(h[0x16:])),
		SampleRate:    int(binary.LittleEndian.Uint32(h[0x18:])),
		BitsPerSample: int(binary.LittleEndian.Uint16(h[0x22:])),
		DataSize:      int(binary.LittleEndian.Uint32(h[0x28:])),
	}, nil
}

// Package audio connects a synth processor to realtime output devices.
package audio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/justyntemme/monosynth/pkg/synth"
)

// BytesPerSample is the size of one float32 LE sample.
const BytesPerSample = 4

// Stream pulls interleaved float32 little-endian frames from a processor.
// It is the io.Reader handed to pull-model device players, which call Read
// from a single device goroutine. Read must not be called concurrently.
type Stream struct {
	proc     *synth.Processor
	channels int
	block    [][]float32
}

// NewStream creates a reader over an initialized processor.
func NewStream(proc *synth.Processor) (*Stream, error) {
	ctx := proc.Context()
	if ctx == nil {
		return nil, synth.ErrNotInitialized
	}

	channels := proc.NumChannels()
	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, ctx.MaxBlockSize())
	}

	return &Stream{
		proc:     proc,
		channels: channels,
		block:    block,
	}, nil
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int {
	return s.channels
}

// FrameSize returns the bytes per interleaved frame.
func (s *Stream) FrameSize() int {
	return s.channels * BytesPerSample
}

// Read fills p with whole frames. It never returns io.EOF; an inactive
// processor produces silence.
func (s *Stream) Read(p []byte) (int, error) {
	frameSize := s.FrameSize()
	frames := len(p) / frameSize
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}

	maxBlock := len(s.block[0])
	if maxBlock == 0 {
		clear(p[:frames*frameSize])
		return frames * frameSize, nil
	}

	off := 0
	for done := 0; done < frames; {
		n := min(maxBlock, frames-done)
		s.proc.Render(s.block, n)

		for i := 0; i < n; i++ {
			for ch := 0; ch < s.channels; ch++ {
				binary.LittleEndian.PutUint32(p[off:], math.Float32bits(s.block[ch][i]))
				off += BytesPerSample
			}
		}
		done += n
	}
	return off, nil
}

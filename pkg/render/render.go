// Package render drives a synth processor offline, block by block, from a
// scripted trigger sequence.
package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/midi"
	"github.com/justyntemme/monosynth/pkg/synth"
	"github.com/justyntemme/monosynth/pkg/wave"
)

// Sink receives each rendered block. The slices are reused after it returns.
type Sink func(block [][]float32, n int) error

// Stats summarises a finished render.
type Stats struct {
	Frames   int
	Blocks   int
	Dropped  uint64 // triggers lost to a full queue
	Overruns uint64 // blocks slower than real time
	Load     float64
	Elapsed  time.Duration
}

// Renderer renders an initialized processor.
type Renderer struct {
	proc      *synth.Processor
	logger    *debug.Logger
	profiler  *debug.BlockProfiler
	blockSize int
	block     [][]float32
	events    []midi.Event
}

// New creates a renderer feeding blocks of blockSize frames. blockSize is
// limited to the processor's maximum block size.
func New(proc *synth.Processor, blockSize int, logger *debug.Logger) (*Renderer, error) {
	ctx := proc.Context()
	if ctx == nil {
		return nil, fmt.Errorf("new renderer: %w", synth.ErrNotInitialized)
	}
	if blockSize <= 0 || blockSize > ctx.MaxBlockSize() {
		blockSize = ctx.MaxBlockSize()
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("new renderer: %w", synth.ErrInvalidBlockSize)
	}
	if logger == nil {
		logger = debug.Default()
	}

	block := make([][]float32, proc.NumChannels())
	for ch := range block {
		block[ch] = make([]float32, blockSize)
	}

	return &Renderer{
		proc:      proc,
		logger:    logger.With("render"),
		profiler:  debug.NewBlockProfiler(proc.SampleRate()),
		blockSize: blockSize,
		block:     block,
		events:    make([]midi.Event, 0, midi.DefaultQueueSize),
	}, nil
}

// Profiler returns the block timing profiler.
func (r *Renderer) Profiler() *debug.BlockProfiler {
	return r.profiler
}

// BlockSize returns the frames per block.
func (r *Renderer) BlockSize() int {
	return r.blockSize
}

// Run renders frames frames, passing every block to sink. Triggers in seq
// take effect at the start of the block containing them. The processor is
// activated if needed.
func (r *Renderer) Run(ctx context.Context, seq *midi.Sequence, frames int, sink Sink) (Stats, error) {
	var stats Stats

	if !r.proc.IsActive() {
		if err := r.proc.SetActive(true); err != nil {
			return stats, fmt.Errorf("render: %w", err)
		}
	}

	droppedBefore := r.proc.DroppedTriggers()
	start := time.Now()

	for pos := 0; pos < frames; {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("render interrupted at frame %d: %w", pos, err)
		}

		n := min(r.blockSize, frames-pos)

		if seq != nil {
			r.events = seq.Block(int64(pos), n, r.events[:0])
			for _, e := range r.events {
				r.proc.Trigger(e)
			}
		}

		blockStart := time.Now()
		r.proc.Render(r.block, n)
		if r.profiler.RecordBlock(n, time.Since(blockStart)) {
			r.logger.Debug("block at frame %d overran its %v budget", pos, r.profiler.Budget(n))
		}

		out := r.block
		if n < r.blockSize {
			out = r.slice(n)
		}
		if err := sink(out, n); err != nil {
			return stats, fmt.Errorf("render sink at frame %d: %w", pos, err)
		}

		pos += n
		stats.Frames = pos
		stats.Blocks++
	}

	stats.Elapsed = time.Since(start)
	stats.Dropped = r.proc.DroppedTriggers() - droppedBefore
	stats.Overruns = r.profiler.Overruns()
	stats.Load = r.profiler.Load()

	if stats.Dropped > 0 {
		r.logger.Warn("%d triggers dropped by a full queue", stats.Dropped)
	}
	r.logger.Info("rendered %d frames in %d blocks (%v, %.1f%% load)",
		stats.Frames, stats.Blocks, stats.Elapsed.Round(time.Microsecond), stats.Load)

	return stats, nil
}

func (r *Renderer) slice(n int) [][]float32 {
	out := make([][]float32, len(r.block))
	for ch := range out {
		out[ch] = r.block[ch][:n]
	}
	return out
}

// ToBuffer renders frames frames into planar channel buffers.
func (r *Renderer) ToBuffer(ctx context.Context, seq *midi.Sequence, frames int) ([][]float32, Stats, error) {
	out := make([][]float32, len(r.block))
	for ch := range out {
		out[ch] = make([]float32, 0, frames)
	}

	stats, err := r.Run(ctx, seq, frames, func(block [][]float32, n int) error {
		for ch := range out {
			out[ch] = append(out[ch], block[ch][:n]...)
		}
		return nil
	})
	return out, stats, err
}

// ToWAV renders frames frames as 16-bit PCM wave data to w.
func (r *Renderer) ToWAV(ctx context.Context, seq *midi.Sequence, frames int, w io.Writer) (Stats, error) {
	ww, err := wave.NewWriter(w, int(r.proc.SampleRate()), len(r.block))
	if err != nil {
		return Stats{}, fmt.Errorf("render wav: %w", err)
	}

	stats, err := r.Run(ctx, seq, frames, func(block [][]float32, n int) error {
		return ww.WriteFloat(block, n)
	})
	if err != nil {
		return stats, err
	}

	if err := ww.Close(); err != nil {
		return stats, fmt.Errorf("render wav: %w", err)
	}
	return stats, nil
}

// Frames converts a duration in seconds to a frame count at sampleRate.
func Frames(seconds, sampleRate float64) int {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(seconds*sampleRate + 0.5)
}

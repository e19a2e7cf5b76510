package synth

import (
	"fmt"
	"sync/atomic"

	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/framework/process"
	"github.com/justyntemme/monosynth/pkg/midi"
)

// Processor hosts the engine: it owns the parameter registry, a block
// context and the live trigger queue. Parameters and Trigger may be used
// from any goroutine; ProcessAudio and Render belong to the audio thread.
type Processor struct {
	params *param.Registry
	engine *Engine
	ctx    *process.Context
	queue  *midi.Queue
	logger *debug.Logger

	numChannels  int
	sampleRate   float64
	maxBlockSize int32
	active       atomic.Bool
	resetPending atomic.Bool
}

// NewProcessor creates a processor with the full synth parameter set
func NewProcessor(numChannels int, logger *debug.Logger) *Processor {
	if numChannels < 1 {
		numChannels = 1
	}
	if logger == nil {
		logger = debug.Default()
	}
	return &Processor{
		params:      param.NewSynthRegistry(),
		engine:      NewEngine(),
		queue:       midi.NewQueue(midi.DefaultQueueSize),
		logger:      logger,
		numChannels: numChannels,
	}
}

// Initialize prepares the engine and allocates the block context
func (p *Processor) Initialize(sampleRate float64, maxBlockSize int32) error {
	if err := p.engine.Prepare(sampleRate, int(maxBlockSize)); err != nil {
		p.logger.Error("initialize failed: %v", err)
		return fmt.Errorf("initialize processor: %w", err)
	}

	p.sampleRate = sampleRate
	p.maxBlockSize = maxBlockSize
	p.ctx = process.NewContext(p.numChannels, int(maxBlockSize), p.params)
	p.ctx.SampleRate = sampleRate

	p.logger.Info("initialized: %.0f Hz, %d channels, max block %d", sampleRate, p.numChannels, maxBlockSize)
	return nil
}

// SetActive starts or stops processing. Deactivating schedules an engine
// reset on the audio thread so the next activation starts from silence.
func (p *Processor) SetActive(active bool) error {
	if active && p.ctx == nil {
		return fmt.Errorf("activate processor: %w", ErrNotInitialized)
	}
	if !active {
		p.resetPending.Store(true)
	}
	p.active.Store(active)
	p.logger.Debug("active: %t", active)
	return nil
}

// IsActive reports whether the processor is running
func (p *Processor) IsActive() bool {
	return p.active.Load()
}

// ProcessAudio renders one block into ctx - ZERO ALLOCATIONS!
// Queued triggers are appended to the context's events.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if p.resetPending.Swap(false) {
		// Rate and block size were validated by Initialize
		_ = p.engine.Prepare(p.sampleRate, int(p.maxBlockSize))
	}
	if !p.active.Load() {
		ctx.Clear()
		ctx.ClearEvents()
		return
	}

	ctx.DrainQueue(p.queue)
	p.engine.ProcessContext(ctx, p.params.Snapshot())
	ctx.ClearEvents()
}

// Render fills out with n samples per channel using the internal context,
// for pull-model backends. Every channel of out must hold n samples.
// Requests longer than the prepared maximum are split into several blocks,
// and channels beyond the processor's channel count are zeroed.
func (p *Processor) Render(out [][]float32, n int) {
	if p.ctx == nil || !p.active.Load() {
		for ch := range out {
			buf := out[ch]
			if n < len(buf) {
				buf = buf[:n]
			}
			for i := range buf {
				buf[i] = 0
			}
		}
		return
	}

	for pos := 0; pos < n; {
		block := p.ctx.SetBlock(n - pos)
		if block == 0 {
			break
		}
		p.ProcessAudio(p.ctx)

		for ch := range out {
			dst := out[ch][pos : pos+block]
			if ch < p.ctx.NumOutputChannels() {
				copy(dst, p.ctx.Output[ch])
				continue
			}
			for i := range dst {
				dst[i] = 0
			}
		}
		pos += block
	}
}

// Trigger queues an event for the next block. It returns false when the
// queue is full.
func (p *Processor) Trigger(e midi.Event) bool {
	return p.queue.Push(e)
}

// DroppedTriggers returns how many triggers were lost to a full queue
func (p *Processor) DroppedTriggers() uint64 {
	return p.queue.Dropped()
}

// Engine returns the voice engine for inspection
func (p *Processor) Engine() *Engine {
	return p.engine
}

// Context returns the internal block context, nil before Initialize
func (p *Processor) Context() *process.Context {
	return p.ctx
}

// GetParameters returns the parameter registry
func (p *Processor) GetParameters() *param.Registry {
	return p.params
}

// NumChannels returns the output channel count
func (p *Processor) NumChannels() int {
	return p.numChannels
}

// SampleRate returns the initialized sample rate
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// GetLatencySamples returns the processor latency in samples
func (p *Processor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples returns the release time in samples
func (p *Processor) GetTailSamples() int32 {
	release := p.params.Get(param.Release).GetPlainValue()
	return int32(release * p.sampleRate)
}

// Package process provides the block processing context shared by the synth
// engine, the processor and the audio backends.
package process

import (
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/midi"
)

// DefaultMaxEvents is the event capacity of a block
const DefaultMaxEvents = 128

// Context provides a clean API for audio processing with zero allocations
type Context struct {
	// Output is sliced to the current block length
	Output     [][]float32
	SampleRate float64

	// Pre-allocated channel storage and event buffer
	storage [][]float32
	events  []midi.Event

	maxBlockSize int

	// Parameter access
	params *param.Registry
}

// NewContext creates a new process context with pre-allocated buffers for
// numChannels channels of up to maxBlockSize samples
func NewContext(numChannels, maxBlockSize int, params *param.Registry) *Context {
	if numChannels < 1 {
		numChannels = 1
	}
	if maxBlockSize < 0 {
		maxBlockSize = 0
	}

	storage := make([][]float32, numChannels)
	for ch := range storage {
		storage[ch] = make([]float32, maxBlockSize)
	}

	c := &Context{
		storage:      storage,
		Output:       make([][]float32, numChannels),
		events:       make([]midi.Event, 0, DefaultMaxEvents),
		maxBlockSize: maxBlockSize,
		params:       params,
	}
	c.SetBlock(maxBlockSize)
	return c
}

// SetBlock resizes Output to n samples (clamped to the pre-allocated size)
// and returns the length actually set - no allocation!
func (c *Context) SetBlock(n int) int {
	if n < 0 {
		n = 0
	}
	if n > c.maxBlockSize {
		n = c.maxBlockSize
	}
	for ch := range c.storage {
		c.Output[ch] = c.storage[ch][:n]
	}
	return n
}

// MaxBlockSize returns the pre-allocated block length
func (c *Context) MaxBlockSize() int {
	return c.maxBlockSize
}

// Params returns the parameter registry, which may be nil
func (c *Context) Params() *param.Registry {
	return c.params
}

// Param returns the current value of a parameter (0-1 normalized)
func (c *Context) Param(id param.ID) float64 {
	if c.params == nil {
		return 0
	}
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the current plain value of a parameter
func (c *Context) ParamPlain(id param.ID) float64 {
	if c.params == nil {
		return 0
	}
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}

// Snapshot reads every parameter for the coming block. Without a registry
// it returns the defaults.
func (c *Context) Snapshot() param.Snapshot {
	if c.params == nil {
		return param.DefaultSnapshot()
	}
	return c.params.Snapshot()
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Output) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// AddEvent appends a trigger for the current block. It returns false when
// the pre-allocated event buffer is full.
func (c *Context) AddEvent(e midi.Event) bool {
	if len(c.events) == cap(c.events) {
		return false
	}
	c.events = append(c.events, e)
	return true
}

// DrainQueue moves pending triggers from q into the block's event buffer
// and returns how many were taken
func (c *Context) DrainQueue(q *midi.Queue) int {
	before := len(c.events)
	c.events = q.Drain(c.events)
	return len(c.events) - before
}

// Events returns the block's triggers in arrival order
func (c *Context) Events() []midi.Event {
	return c.events
}

// HasEvents reports whether the block carries any trigger
func (c *Context) HasEvents() bool {
	return len(c.events) > 0
}

// ClearEvents empties the event buffer, keeping its capacity
func (c *Context) ClearEvents() {
	c.events = c.events[:0]
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		out := c.Output[ch]
		for i := range out {
			out[i] = 0
		}
	}
}

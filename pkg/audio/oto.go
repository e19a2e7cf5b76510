//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/synth"
)

// OtoBackend is the name of the oto backend.
const OtoBackend = "oto"

func init() {
	Register(OtoBackend, func(proc *synth.Processor, logger *debug.Logger) (Player, error) {
		return NewOtoPlayer(proc, logger)
	})
}

// OtoPlayer plays a Stream through oto. oto allows one context per process.
type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	stream  *Stream
	logger  *debug.Logger
	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

// NewOtoPlayer opens the default device at the processor's rate and channels.
func NewOtoPlayer(proc *synth.Processor, logger *debug.Logger) (*OtoPlayer, error) {
	stream, err := NewStream(proc)
	if err != nil {
		return nil, err
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(proc.SampleRate()),
		ChannelCount: stream.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferDuration(proc),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	logger.Info("device ready: %d Hz, %d channels, buffer %v", op.SampleRate, op.ChannelCount, op.BufferSize)

	return &OtoPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(stream),
		stream: stream,
		logger: logger,
	}, nil
}

// bufferDuration sizes the device buffer to two processor blocks.
func bufferDuration(proc *synth.Processor) time.Duration {
	ctx := proc.Context()
	if ctx == nil || proc.SampleRate() <= 0 {
		return 0
	}
	return time.Duration(float64(2*ctx.MaxBlockSize()) / proc.SampleRate() * float64(time.Second))
}

// Start begins playback.
func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return fmt.Errorf("oto player closed")
	}
	if !op.started {
		op.player.Play()
		op.started = true
		op.logger.Debug("playback started")
	}
	return nil
}

// Close stops playback and releases the player.
func (op *OtoPlayer) Close() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return nil
	}
	op.player.Pause()
	op.player.Close()
	op.player = nil
	op.started = false
	op.logger.Debug("playback stopped")
	return nil
}

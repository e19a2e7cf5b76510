//go:build portaudio

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/synth"
)

// PortAudioBackend is the name of the PortAudio backend.
const PortAudioBackend = "portaudio"

func init() {
	Register(PortAudioBackend, func(proc *synth.Processor, logger *debug.Logger) (Player, error) {
		return NewPortAudioPlayer(proc, logger)
	})
}

// PortAudioPlayer renders straight into PortAudio's planar callback buffers.
type PortAudioPlayer struct {
	stream *portaudio.Stream
	logger *debug.Logger
}

// NewPortAudioPlayer opens the default output device with one processor
// block per callback.
func NewPortAudioPlayer(proc *synth.Processor, logger *debug.Logger) (*PortAudioPlayer, error) {
	ctx := proc.Context()
	if ctx == nil {
		return nil, synth.ErrNotInitialized
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio initialize: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, proc.NumChannels(), proc.SampleRate(), ctx.MaxBlockSize(),
		func(in, out [][]float32) {
			if len(out) == 0 {
				return
			}
			proc.Render(out, len(out[0]))
		})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio open: %w", err)
	}

	logger.Info("device ready: %.0f Hz, %d channels, %d frames per buffer",
		proc.SampleRate(), proc.NumChannels(), ctx.MaxBlockSize())

	return &PortAudioPlayer{stream: stream, logger: logger}, nil
}

// Start begins playback.
func (p *PortAudioPlayer) Start() error {
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("portaudio start: %w", err)
	}
	return nil
}

// Close stops the stream and terminates PortAudio.
func (p *PortAudioPlayer) Close() error {
	err := p.stream.Close()
	portaudio.Terminate()
	if err != nil {
		return fmt.Errorf("portaudio close: %w", err)
	}
	return nil
}

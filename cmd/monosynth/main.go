// Command monosynth renders or plays the monophonic synth voice.
//
// Offline, it renders a Lua patch and its scripted notes to a wave file:
//
//	monosynth -preset bass.lua -out bass.wav -analyze
//
// With -play it opens a live audio backend and reads keys from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/justyntemme/monosynth/pkg/audio"
	"github.com/justyntemme/monosynth/pkg/dsp/gain"
	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/midi"
	"github.com/justyntemme/monosynth/pkg/preset"
	"github.com/justyntemme/monosynth/pkg/render"
	"github.com/justyntemme/monosynth/pkg/synth"
	"github.com/justyntemme/monosynth/pkg/wave"
)

const (
	defaultSeconds  = 2.0
	normalizeTarget = -1.0
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, errUsage) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "monosynth: %v\n", err)
		return 2
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "monosynth: %v\n", err)
		return 1
	}
	defer closeLog()

	if cfg.play {
		err = play(ctx, cfg, logger, stdin, stdout)
	} else {
		err = renderFile(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config, stderr io.Writer) (*debug.Logger, func(), error) {
	logger := debug.New(stderr, debug.DefaultPrefix, debug.DefaultFlags)
	closeLog := func() {}

	if cfg.logFile != "" {
		l, closer, err := debug.NewFileLogger(cfg.logFile, debug.DefaultPrefix, debug.DefaultFlags)
		if err != nil {
			return nil, nil, err
		}
		logger = l
		closeLog = func() { closer.Close() }
	}

	logger.SetLevel(cfg.logLevel)
	return logger, closeLog, nil
}

// newProcessor builds an initialized processor with the configured patch
// applied. The patch is nil when no preset was given.
func newProcessor(ctx context.Context, cfg *config, logger *debug.Logger) (*synth.Processor, *preset.Patch, error) {
	proc := synth.NewProcessor(cfg.channels, logger)
	if err := proc.Initialize(cfg.rate, int32(cfg.block)); err != nil {
		return nil, nil, err
	}

	if cfg.preset == "" {
		return proc, nil, nil
	}

	patch, err := preset.Load(ctx, cfg.preset)
	if err != nil {
		return nil, nil, err
	}
	if err := patch.Apply(proc.GetParameters()); err != nil {
		return nil, nil, err
	}

	name := patch.Name
	if name == "" {
		name = cfg.preset
	}
	logger.Info("loaded preset %q: %d values, %d notes", name, len(patch.Values), len(patch.Notes))
	return proc, patch, nil
}

func renderFile(ctx context.Context, cfg *config, logger *debug.Logger) error {
	proc, patch, err := newProcessor(ctx, cfg, logger)
	if err != nil {
		return err
	}

	seq := midi.NewSequence()
	seconds := cfg.seconds
	if patch != nil {
		seq = patch.Sequence(cfg.rate)
		if seconds == 0 && patch.Duration() > 0 {
			seconds = patch.Duration() + float64(proc.GetTailSamples())/cfg.rate
		}
	}
	if seconds == 0 {
		seconds = defaultSeconds
	}
	if seq.Len() == 0 && !proc.GetParameters().Snapshot().AlwaysOn {
		logger.Warn("no notes scripted and always-on is off: the render will be silent")
	}

	r, err := render.New(proc, cfg.block, logger)
	if err != nil {
		return err
	}

	frames := render.Frames(seconds, cfg.rate)
	out, stats, err := r.ToBuffer(ctx, seq, frames)
	if err != nil {
		return err
	}
	if stats.Overruns > 0 {
		logger.Warn("%d of %d blocks rendered slower than real time", stats.Overruns, stats.Blocks)
	}

	shapeOutput(cfg, logger, out)

	if err := writeWAV(cfg.out, out, int(cfg.rate)); err != nil {
		return err
	}
	logger.Info("wrote %s: %.2fs, %d channels", cfg.out, seconds, cfg.channels)

	if cfg.analyze {
		if _, err := analyzeRender(logger, out, cfg.rate, cfg.block); err != nil {
			return err
		}
	}
	if cfg.profile {
		logger.Info("%s", r.Profiler().AudioReport())
	}

	return savePatch(cfg, proc, patch)
}

// shapeOutput applies the offline output stage: DC removal, trim or
// normalize, then the closing fade.
func shapeOutput(cfg *config, logger *debug.Logger, out [][]float32) {
	if cfg.dcBlock {
		gain.NewDCBlocker(len(out), gain.DCBlockerCutoff, cfg.rate).ProcessChannels(out)
	}

	switch {
	case cfg.normalize:
		if gain.Peak(out) == 0 {
			logger.Warn("render is silent: nothing to normalize")
			break
		}
		db := gain.Normalize(out, normalizeTarget)
		logger.Info("normalized to %.1f dBFS (%+.2f dB)", normalizeTarget, db)
	case cfg.gainDB != 0:
		gain.ApplyDb(out, cfg.gainDB)
		logger.Debug("applied %+.2f dB output trim", cfg.gainDB)
	}

	if cfg.fade > 0 {
		gain.FadeOut(out, render.Frames(cfg.fade, cfg.rate))
	}

	clipped := 0
	for _, ch := range out {
		clipped += gain.HardClipBuffer(ch, 1)
	}
	if clipped > 0 {
		logger.Warn("%d samples clipped at full scale", clipped)
	}
}

func writeWAV(path string, out [][]float32, sampleRate int) error {
	w, err := wave.NewFile(path, sampleRate, len(out))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.WriteFloat(out, len(out[0])); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func savePatch(cfg *config, proc *synth.Processor, loaded *preset.Patch) error {
	if cfg.savePreset == "" {
		return nil
	}

	p := preset.FromRegistry("", proc.GetParameters())
	if loaded != nil {
		p.Name = loaded.Name
		p.Notes = loaded.Notes
		p.Holds = loaded.Holds
	}

	f, err := os.Create(cfg.savePreset)
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func play(ctx context.Context, cfg *config, logger *debug.Logger, stdin *os.File, stdout io.Writer) error {
	proc, patch, err := newProcessor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := proc.SetActive(true); err != nil {
		return err
	}

	player, err := audio.Open(cfg.backend, proc, logger)
	if err != nil {
		return err
	}
	defer player.Close()

	if err := player.Start(); err != nil {
		return err
	}

	if cfg.seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.seconds*float64(time.Second)))
		defer cancel()
	}

	term, err := openTerminal(stdin, stdout)
	if err != nil {
		return err
	}
	defer term.restore()

	term.println(keyHelp)
	kb := &keyboard{proc: proc}
	keys := term.keys()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case b, ok := <-keys:
			if !ok {
				// stdin closed: keep playing until interrupted or timed out
				keys = nil
				continue
			}
			status, quit := kb.press(b)
			if status != "" {
				term.println(status)
			}
			if quit {
				break loop
			}
		}
	}

	if dropped := proc.DroppedTriggers(); dropped > 0 {
		logger.Warn("%d key triggers dropped", dropped)
	}
	return savePatch(cfg, proc, patch)
}

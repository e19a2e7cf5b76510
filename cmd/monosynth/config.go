package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/justyntemme/monosynth/pkg/audio"
	"github.com/justyntemme/monosynth/pkg/framework/debug"
)

type config struct {
	preset     string
	savePreset string
	out        string
	seconds    float64
	rate       float64
	block      int
	channels   int
	gainDB     float64
	normalize  bool
	fade       float64
	dcBlock    bool
	play       bool
	backend    string
	analyze    bool
	profile    bool
	logLevel   debug.LogLevel
	logFile    string
}

var errUsage = errors.New("usage")

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	var level string

	flagSet := flag.NewFlagSet("monosynth", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cfg.preset, "preset", "", "Lua patch file to load")
	flagSet.StringVar(&cfg.savePreset, "save-preset", "", "write the final parameter values as a Lua patch")
	flagSet.StringVar(&cfg.out, "out", "monosynth.wav", "output wave file for offline renders")
	flagSet.Float64Var(&cfg.seconds, "seconds", 0, "render length in seconds (0: scripted notes plus release, or 2s)")
	flagSet.Float64Var(&cfg.rate, "rate", 48000, "sample rate in Hz")
	flagSet.IntVar(&cfg.block, "block", 512, "processing block size in frames")
	flagSet.IntVar(&cfg.channels, "channels", 2, "output channel count")
	flagSet.Float64Var(&cfg.gainDB, "gain", 0, "output trim in dB applied to offline renders")
	flagSet.BoolVar(&cfg.normalize, "normalize", false, "normalize the render peak to -1 dBFS (replaces -gain)")
	flagSet.Float64Var(&cfg.fade, "fade", 0, "fade-out length in seconds at the end of the render")
	flagSet.BoolVar(&cfg.dcBlock, "dc-block", false, "remove DC offset from offline renders")
	flagSet.BoolVar(&cfg.play, "play", false, "play live on an audio device instead of rendering")
	flagSet.StringVar(&cfg.backend, "backend", "oto", "live audio backend")
	flagSet.BoolVar(&cfg.analyze, "analyze", false, "log level, spectrum and channel analysis of the render")
	flagSet.BoolVar(&cfg.profile, "profile", false, "print the block timing report after rendering")
	flagSet.StringVar(&level, "log-level", "info", "debug, info, warn, error or off")
	flagSet.StringVar(&cfg.logFile, "log-file", "", "append logs to this file instead of stderr")

	flagSet.Usage = func() {
		flagSet.SetOutput(stderr)
		fmt.Fprintln(stderr, "Usage: monosynth [-preset patch.lua] [-out out.wav | -play] [flags]")
		fmt.Fprintf(stderr, "Backends: %v\n", audio.Backends())
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errUsage
		}
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	lvl, err := debug.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.logLevel = lvl

	switch {
	case cfg.rate <= 0:
		return nil, fmt.Errorf("-rate must be positive, got %g", cfg.rate)
	case cfg.block <= 0:
		return nil, fmt.Errorf("-block must be positive, got %d", cfg.block)
	case cfg.channels < 1:
		return nil, fmt.Errorf("-channels must be at least 1, got %d", cfg.channels)
	case cfg.seconds < 0:
		return nil, fmt.Errorf("-seconds must not be negative, got %g", cfg.seconds)
	case cfg.fade < 0:
		return nil, fmt.Errorf("-fade must not be negative, got %g", cfg.fade)
	case !cfg.play && cfg.out == "":
		return nil, errors.New("-out is required when not playing")
	}

	return cfg, nil
}

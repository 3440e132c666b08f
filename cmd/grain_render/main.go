package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/havregryn-go"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func main() {
	defaults := havregryn.DefaultPreset()
	var (
		inPath     = flag.String("in", "", "input WAV file (required)")
		outPath    = flag.String("out", "grains.wav", "output WAV file; with several -shape values the shape is appended to the name")
		presetPath = flag.String("preset", "", "JSON preset to start from")
		savePath   = flag.String("save-preset", "", "write the effective preset here")
		notesFlag  = flag.String("notes", "60", "comma-separated MIDI notes held for the whole render")
		shapes     = flag.String("shape", "", "comma-separated modulation shapes to render (sine|triangle|sawtooth|square)")
		seconds    = flag.Float64("seconds", 0, "output length; 0 renders capture plus playback")
		preload    = flag.Bool("preload", false, "load the input into the buffer instead of recording it")
		seed       = flag.Uint64("seed", 1, "random seed")
		bitDepth   = flag.Int("bits", havregryn.DefaultBitDepth, "output bit depth (16|24|32)")
		grains     = flag.Int("grains", 16, "grain pool size")
		gain       = flag.Float64("gain", 0.5, "engine master gain")
		debug      = flag.Bool("debug", false, "debug logging")

		position  = flag.Float64("position", defaults.Position, "grain start position in the buffer [0, 1]")
		duration  = flag.Float64("duration", defaults.Duration, "grain length in seconds")
		jitter    = flag.Float64("jitter", defaults.Jitter, "random forward offset of the start position")
		trigger   = flag.Float64("trigger", defaults.Trigger, "onset interval in seconds")
		spread    = flag.Float64("spread", defaults.Spread, "stereo spread [0, 1]")
		rate      = flag.Float64("rate", defaults.Rate, "base playback rate [-1, 1]")
		modAmount = flag.Float64("mod-amount", defaults.ModAmount, "rate modulation depth")
		modFreq   = flag.Float64("mod-freq", defaults.ModFrequency, "rate modulation frequency in Hz")
		random    = flag.Bool("random", defaults.Random, "stochastic onsets with the trigger interval as mean spacing")
	)
	flag.Parse()
	initLogger(*debug)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "grain_render: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	preset := defaults
	if *presetPath != "" {
		p, err := havregryn.LoadPreset(*presetPath)
		if err != nil {
			fatal("load preset", err)
		}
		preset = p
	}
	// Explicit flags override the preset.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "position":
			preset.Position = *position
		case "duration":
			preset.Duration = *duration
		case "jitter":
			preset.Jitter = *jitter
		case "trigger":
			preset.Trigger = *trigger
		case "spread":
			preset.Spread = *spread
		case "rate":
			preset.Rate = *rate
		case "mod-amount":
			preset.ModAmount = *modAmount
		case "mod-freq":
			preset.ModFrequency = *modFreq
		case "random":
			preset.Random = *random
		}
	})

	notes, err := parseNotes(*notesFlag)
	if err != nil {
		fatal("parse notes", err)
	}
	shapeList := []string{preset.ModShape}
	if strings.TrimSpace(*shapes) != "" {
		shapeList = strings.Split(*shapes, ",")
	}

	input, err := havregryn.ReadWAV(*inPath)
	if err != nil {
		fatal("read input", err)
	}
	logger.Info("input loaded", "path", *inPath, "frames", input.Frames(), "channels", input.Channels, "sample_rate", input.SampleRate)

	if *savePath != "" {
		if err := havregryn.SavePreset(*savePath, preset); err != nil {
			fatal("save preset", err)
		}
		logger.Info("preset saved", "path", *savePath)
	}

	cfg := havregryn.RenderConfig{Seconds: *seconds, Notes: notes, Preload: *preload}
	var g errgroup.Group
	for _, name := range shapeList {
		name = strings.TrimSpace(name)
		p := preset
		p.ModShape = name
		target := *outPath
		if len(shapeList) > 1 {
			target = withSuffix(*outPath, name)
		}
		g.Go(func() error {
			out, err := havregryn.Render(input, cfg,
				havregryn.WithPreset(p),
				havregryn.WithSeed(*seed),
				havregryn.WithGrains(*grains),
				havregryn.WithMasterGain(*gain),
			)
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
			if err := havregryn.WriteWAV(target, out, *bitDepth); err != nil {
				return err
			}
			logger.Info("rendered", "shape", name, "path", target, "frames", out.Frames())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fatal("render", err)
	}
}

func parseNotes(s string) ([]int, error) {
	var notes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q", field)
		}
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("note %d out of range 0..127", n)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}

func fatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

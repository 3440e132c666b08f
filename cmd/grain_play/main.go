package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

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

// keyNotes maps one keyboard row to a chromatic octave starting at C4.
var keyNotes = map[byte]int{
	'a': 60, 'w': 61, 's': 62, 'e': 63, 'd': 64, 'f': 65, 't': 66,
	'g': 67, 'y': 68, 'h': 69, 'u': 70, 'j': 71, 'k': 72,
}

const help = "keys: a-k play/release notes, z/x octave, r resample, n random, 1-4 shape, q quit\r\n"

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		inPath     = flag.String("in", "", "WAV file looped as the live input")
		presetPath = flag.String("preset", "", "JSON preset to start from")
		capture    = flag.Float64("capture", 4, "capture buffer length in seconds")
		latency    = flag.Duration("latency", 40*time.Millisecond, "device buffer length")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	initLogger(*debug)

	preset := havregryn.DefaultPreset()
	if *presetPath != "" {
		p, err := havregryn.LoadPreset(*presetPath)
		if err != nil {
			fatal("load preset", err)
		}
		preset = p
	}

	opts := []havregryn.PlayerOption{
		havregryn.WithLogger(logger),
		havregryn.WithLatency(*latency),
		havregryn.WithSynthOptions(
			havregryn.WithPreset(preset),
			havregryn.WithCaptureSeconds(*capture),
		),
	}
	if *inPath != "" {
		input, err := havregryn.ReadWAV(*inPath)
		if err != nil {
			fatal("read input", err)
		}
		if input.SampleRate != *sampleRate {
			logger.Warn("input sample rate differs from output; pitch will shift", "input", input.SampleRate, "output", *sampleRate)
		}
		opts = append(opts, havregryn.WithInput(newLooper(input.Mono())))
	}

	pl, err := havregryn.NewPlayer(*sampleRate, opts...)
	if err != nil {
		fatal("new player", err)
	}
	if err := pl.Start(); err != nil {
		fatal("start", err)
	}
	defer pl.Stop()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fatal("keyboard", fmt.Errorf("stdin is not a terminal"))
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fatal("raw mode", err)
	}
	defer term.Restore(fd, oldState)

	fmt.Print(help)
	kb := newKeyboard(pl)
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		if !kb.handle(buf[0]) {
			kb.releaseAll()
			return
		}
	}
}

// player is the part of havregryn.Player the keyboard drives.
type player interface {
	NoteOn(note int) bool
	NoteOff(note int) bool
	Resample()
	Controls() *havregryn.Controls
}

type keyboard struct {
	pl     player
	octave int
	held   map[int]bool
}

func newKeyboard(pl player) *keyboard {
	return &keyboard{pl: pl, held: make(map[int]bool)}
}

// handle applies one key and returns false when the user asked to quit.
func (k *keyboard) handle(key byte) bool {
	controls := k.pl.Controls()
	switch {
	case key == 'q' || key == 3:
		return false
	case key == 'r':
		k.pl.Resample()
		k.status("resample")
	case key == 'n':
		on := !controls.Random.Value()
		controls.Random.Set(on)
		k.status(fmt.Sprintf("random %v", on))
	case key >= '1' && key <= '4':
		controls.ModShape.Set(int(key - '1'))
		k.status(fmt.Sprintf("shape %d", key-'0'))
	case key == 'z':
		k.octave = max(k.octave-1, -4)
		k.status(fmt.Sprintf("octave %+d", k.octave))
	case key == 'x':
		k.octave = min(k.octave+1, 4)
		k.status(fmt.Sprintf("octave %+d", k.octave))
	default:
		base, ok := keyNotes[key]
		if !ok {
			return true
		}
		note := base + 12*k.octave
		if k.held[note] {
			k.pl.NoteOff(note)
			delete(k.held, note)
			k.status(fmt.Sprintf("note off %d", note))
		} else {
			k.pl.NoteOn(note)
			k.held[note] = true
			k.status(fmt.Sprintf("note on %d", note))
		}
	}
	return true
}

func (k *keyboard) releaseAll() {
	for note := range k.held {
		k.pl.NoteOff(note)
		delete(k.held, note)
	}
}

func (k *keyboard) status(msg string) {
	logger.Debug(msg, "held", len(k.held))
	fmt.Printf("%s\r\n", msg)
}

// newLooper returns an input feed that repeats samples forever.
func newLooper(samples []float32) havregryn.InputFunc {
	pos := 0
	return func(dst []float32) {
		if len(samples) == 0 {
			return
		}
		for i := range dst {
			dst[i] = samples[pos]
			pos++
			if pos == len(samples) {
				pos = 0
			}
		}
	}
}

func fatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

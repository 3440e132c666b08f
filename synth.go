// Package havregryn is a granular sampler: it captures incoming audio into a
// buffer and replays it as a cloud of short grains, triggered periodically or
// stochastically and pitched by the held MIDI notes.
package havregryn

import (
	"github.com/pkg/errors"

	"github.com/cbegin/havregryn-go/internal/event"
	"github.com/cbegin/havregryn-go/internal/gate"
	"github.com/cbegin/havregryn-go/internal/granulator"
	"github.com/cbegin/havregryn-go/internal/params"
	"github.com/cbegin/havregryn-go/internal/processor"
)

// Event is a MIDI note event placed at a frame offset inside a block.
type Event = event.Event

// Controls is the live parameter set of a Synth. Its setters may be called
// from any goroutine.
type Controls = params.Set

// DrainPolicy selects how a frame's MIDI events are applied.
type DrainPolicy = event.DrainPolicy

const (
	StopAtFirstNonNote = event.StopAtFirstNonNote
	ProcessAll         = event.ProcessAll
)

// NoteOnAt returns a note-on event at frame.
func NoteOnAt(frame, note int) Event {
	return Event{Frame: frame, Kind: event.NoteOn, Note: uint8(note), Velocity: 100}
}

// NoteOffAt returns a note-off event at frame.
func NoteOffAt(frame, note int) Event {
	return Event{Frame: frame, Kind: event.NoteOff, Note: uint8(note)}
}

type SynthOption func(*synthConfig)

type synthConfig struct {
	seed           uint64
	seeded         bool
	captureSamples int
	captureSeconds float64
	recordOnStart  bool
	drain          event.DrainPolicy
	engine         granulator.Params
	preset         *Preset
}

func defaultSynthConfig() synthConfig {
	return synthConfig{
		recordOnStart: true,
		drain:         event.StopAtFirstNonNote,
		engine:        granulator.DefaultParams(),
	}
}

// WithSeed makes the stochastic trigger and the pan/jitter draws repeatable.
func WithSeed(seed uint64) SynthOption {
	return func(cfg *synthConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithCaptureSeconds sizes the capture buffer.
func WithCaptureSeconds(seconds float64) SynthOption {
	return func(cfg *synthConfig) {
		cfg.captureSeconds = seconds
		cfg.captureSamples = 0
	}
}

// WithCaptureSamples sizes the capture buffer in frames.
func WithCaptureSamples(frames int) SynthOption {
	return func(cfg *synthConfig) {
		cfg.captureSamples = frames
		cfg.captureSeconds = 0
	}
}

// WithRecordOnStart chooses whether the synth starts by capturing input.
// Disabled, it starts playing from a silent (or loaded) buffer.
func WithRecordOnStart(enabled bool) SynthOption {
	return func(cfg *synthConfig) {
		cfg.recordOnStart = enabled
	}
}

func WithDrainPolicy(policy DrainPolicy) SynthOption {
	return func(cfg *synthConfig) {
		cfg.drain = policy
	}
}

// WithGrains sets the grain pool size.
func WithGrains(n int) SynthOption {
	return func(cfg *synthConfig) {
		if n > 0 {
			cfg.engine.Grains = n
		}
	}
}

// WithMasterGain sets the engine output gain.
func WithMasterGain(gain float64) SynthOption {
	return func(cfg *synthConfig) {
		cfg.engine.MasterGain = gain
	}
}

// WithPreset applies p before the first frame, so smoothed parameters start
// at their preset values instead of ramping from the defaults.
func WithPreset(p Preset) SynthOption {
	return func(cfg *synthConfig) {
		cfg.preset = &p
	}
}

// Synth is the sampler: parameters, control processor and reference engine.
type Synth struct {
	sampleRate int
	controls   *params.Set
	engine     *granulator.Engine
	proc       *processor.Processor

	batch  event.Batch
	silent []float32
	left   []float32
	right  []float32
	in     [1][]float32
	out    [2][]float32
}

func NewSynth(sampleRate int, opts ...SynthOption) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultSynthConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	capture := cfg.captureSamples
	if cfg.captureSeconds > 0 {
		capture = int(cfg.captureSeconds * float64(sampleRate))
	}
	if capture <= 0 {
		capture = sampleRate * processor.DefaultCaptureSeconds
	}

	controls := params.NewSet()
	if cfg.preset != nil {
		if err := cfg.preset.Apply(controls); err != nil {
			return nil, err
		}
	}
	engine := granulator.New(sampleRate, capture, cfg.engine)
	popts := []processor.Option{
		processor.WithDrainPolicy(cfg.drain),
		processor.WithRecordOnStart(cfg.recordOnStart),
	}
	if cfg.seeded {
		popts = append(popts, processor.WithSeed(cfg.seed))
	}
	proc := processor.New(engine, controls, popts...)
	if err := proc.Initialize(float64(sampleRate), capture); err != nil {
		return nil, errors.Wrap(err, "initialize processor")
	}
	return &Synth{
		sampleRate: sampleRate,
		controls:   controls,
		engine:     engine,
		proc:       proc,
	}, nil
}

func (s *Synth) SampleRate() int { return s.sampleRate }

// Controls returns the live parameter set.
func (s *Synth) Controls() *Controls { return s.controls }

// Load fills the capture buffer from samples (mono) and ends any capture in
// progress, so grains can play immediately. It must not run concurrently
// with Process; a running Player takes buffers through Player.Load.
func (s *Synth) Load(samples []float32) {
	s.engine.Load(samples)
	s.proc.Context().Gate.Observe(true)
}

// Capturing reports whether the synth is still filling its buffer.
func (s *Synth) Capturing() bool {
	return s.proc.Context().Gate.State() == gate.Recording
}

// ActiveGrains returns the number of grains sounding right now.
func (s *Synth) ActiveGrains() int { return s.engine.ActiveGrainCount() }

// Stats returns frames processed, onsets fired and grains issued since the
// last reset.
func (s *Synth) Stats() (frames, onsets, grains int64) {
	ctx := s.proc.Context()
	return ctx.Frames, ctx.Onsets, ctx.Grains
}

// Reset clears notes, triggers and modulation and restarts capture when the
// synth records on start.
func (s *Synth) Reset() { s.proc.Reset() }

// Process renders len(out)/2 interleaved stereo frames. in is the mono input
// for the same frames; a short or nil in is padded with silence. events are
// timed relative to the block start and are sorted in place.
func (s *Synth) Process(in []float32, out []float32, events []Event) {
	frames := len(out) / 2
	if frames == 0 {
		return
	}
	s.grow(frames)
	mono := in
	if len(mono) < frames {
		n := copy(s.silent[:frames], mono)
		clear(s.silent[n:frames])
		mono = s.silent[:frames]
	}
	s.in[0] = mono[:frames]
	s.out[0] = s.left[:frames]
	s.out[1] = s.right[:frames]
	s.batch.Reset(events)
	s.proc.Process(s.in[:], s.out[:], &s.batch)
	for i := 0; i < frames; i++ {
		out[2*i] = s.left[i]
		out[2*i+1] = s.right[i]
	}
}

func (s *Synth) grow(frames int) {
	if len(s.left) >= frames {
		return
	}
	s.silent = make([]float32, frames)
	s.left = make([]float32, frames)
	s.right = make([]float32, frames)
}

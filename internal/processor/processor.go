// Package processor is the per-frame driver of the sampler: it drains MIDI,
// pulls smoothed controls, runs both trigger sources, gates on the capture
// state and dispatches grains to the engine.
package processor

import (
	"errors"
	"math/rand/v2"

	"github.com/cbegin/havregryn-go/internal/event"
	"github.com/cbegin/havregryn-go/internal/gate"
	"github.com/cbegin/havregryn-go/internal/modulation"
	"github.com/cbegin/havregryn-go/internal/params"
	"github.com/cbegin/havregryn-go/internal/pitch"
	"github.com/cbegin/havregryn-go/internal/trigger"
	"github.com/cbegin/havregryn-go/internal/wavetable"
)

// DefaultCaptureSeconds sizes the engine's capture buffer when the host does
// not pick one.
const DefaultCaptureSeconds = 8

// ErrSampleRate is returned by Initialize for a non-positive sample rate.
var ErrSampleRate = errors.New("processor: sample rate must be positive")

// Controls supplies one smoothed value per parameter per frame.
type Controls interface {
	Next(f *params.Frame)
	SetSampleRate(sampleRate float64)
}

// Context is every piece of per-voice state, owned by one Processor.
type Context struct {
	Controls params.Frame
	Impulse  *trigger.Impulse
	Ramp     *trigger.Ramp
	Dust     *trigger.Dust
	Router   *modulation.Router
	Notes    *pitch.Tracker
	Gate     *gate.Gate

	Frames int64
	Onsets int64
	Grains int64
}

// Processor runs the control layer over blocks of audio.
type Processor struct {
	engine     Engine
	controls   Controls
	cfg        config
	ctx        Context
	sampleRate float64
	ready      bool
}

// New wires a processor around engine and controls. Initialize must be called
// before the first block.
func New(engine Engine, controls Controls, opts ...Option) *Processor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	notes := pitch.NewTracker()
	return &Processor{
		engine:   engine,
		controls: controls,
		cfg:      cfg,
		ctx: Context{
			Impulse: trigger.NewImpulse(0),
			Ramp:    trigger.NewRamp(0, cfg.rng),
			Dust:    trigger.NewDust(0, cfg.rng),
			Router:  modulation.NewRouter(0, wavetable.NewBank(cfg.tableSize), notes, cfg.rng),
			Notes:   notes,
			Gate:    gate.New(cfg.recordOnStart),
		},
	}
}

// Initialize configures every component for sampleRate and sizes the
// engine's capture buffer. captureSamples <= 0 picks DefaultCaptureSeconds.
// It must not be called concurrently with Process.
func (p *Processor) Initialize(sampleRate float64, captureSamples int) error {
	if !(sampleRate > 0) {
		return ErrSampleRate
	}
	if captureSamples <= 0 {
		captureSamples = int(sampleRate * DefaultCaptureSeconds)
	}
	p.sampleRate = sampleRate
	p.ctx.Impulse.SetSampleRate(sampleRate)
	p.ctx.Ramp.SetSampleRate(sampleRate)
	p.ctx.Dust.SetSampleRate(sampleRate)
	p.ctx.Router.SetSampleRate(sampleRate)
	p.controls.SetSampleRate(sampleRate)
	p.engine.SetSampleRate(sampleRate)
	p.engine.SetBufferSize(captureSamples)
	p.Reset()
	p.ready = true
	return nil
}

// Reset returns the triggers, modulator, notes and gate to their start state.
func (p *Processor) Reset() {
	p.ctx.Impulse.Reset()
	p.ctx.Ramp.Reset()
	p.ctx.Dust.Reset()
	p.ctx.Router.Reset()
	p.ctx.Notes.Clear()
	p.ctx.Gate.Reset(p.cfg.recordOnStart)
	if p.cfg.recordOnStart {
		p.engine.ResetRecord()
	}
	p.ctx.Frames, p.ctx.Onsets, p.ctx.Grains = 0, 0, 0
}

// Context exposes the processor state for inspection.
func (p *Processor) Context() *Context { return &p.ctx }

// SampleRate returns the rate passed to Initialize.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Process runs one block. in and out are per-channel slices of equal length
// and may alias for in-place processing. Frames are taken from out[0]; events
// are timed relative to the block start. Frames captured while the engine is
// recording pass the input through.
func (p *Processor) Process(in, out [][]float32, events *event.Batch) {
	if len(out) == 0 {
		return
	}
	n := len(out[0])
	for i := 0; i < n; i++ {
		mono := downmix(in, i)
		l, r, ok := p.step(i, mono, events)
		for ch := range out {
			switch {
			case ok:
				out[ch][i] = pick(l, r, ch)
			case ch < len(in):
				out[ch][i] = in[ch][i]
			default:
				out[ch][i] = mono
			}
		}
	}
}

// ProcessInterleaved runs one block over interleaved frames in place.
func (p *Processor) ProcessInterleaved(buf []float32, channels int, events *event.Batch) {
	if channels <= 0 {
		return
	}
	for i := 0; i+channels <= len(buf); i += channels {
		frame := buf[i : i+channels]
		var sum float32
		for _, s := range frame {
			sum += s
		}
		l, r, ok := p.step(i/channels, sum/float32(channels), events)
		if !ok {
			continue
		}
		for ch := range frame {
			frame[ch] = pick(l, r, ch)
		}
	}
}

// step runs the control layer for one frame. ok is false when the engine is
// still capturing and the caller should pass input through.
func (p *Processor) step(frame int, mono float32, events *event.Batch) (l, r float32, ok bool) {
	if !p.ready {
		return 0, 0, true
	}
	ctx := &p.ctx
	ctx.Frames++

	events.Drain(frame, p.cfg.drain, ctx.Notes)

	c := &ctx.Controls
	p.controls.Next(c)
	ctx.Gate.Resample(c.Resample, p.engine)

	// Every source runs every frame so switching never restarts a period.
	// The stochastic onset is the dust pulse or the ramp reaching its ceiling.
	periodic := ctx.Impulse.Play(c.Interval)
	stochastic := max(ctx.Ramp.Play(c.Interval), ctx.Dust.Play(c.Interval))
	selected := periodic
	if c.Random {
		selected = stochastic
	}

	_, complete := p.engine.Record(mono)
	if !ctx.Gate.Observe(complete) {
		return 0, 0, false
	}

	mod := ctx.Router.Modulate(c.ModShape, c.ModFreq)
	if trigger.Fired(selected) {
		ctx.Onsets++
		pan, jitter := ctx.Router.DrawOnset(c.Spread, c.Jitter)
		for _, note := range ctx.Notes.Notes() {
			rate := ctx.Router.ComputeRate(c.Rate, int(note), c.ModAmount, mod)
			p.engine.TriggerNew(c.Position, c.Duration, pan, rate, jitter)
			ctx.Grains++
		}
	}

	out := p.engine.Play()
	return out[0], out[1], true
}

func downmix(in [][]float32, i int) float32 {
	if len(in) == 0 {
		return 0
	}
	var sum float32
	for _, ch := range in {
		sum += ch[i]
	}
	return sum / float32(len(in))
}

// pick maps a stereo frame onto output channel ch.
func pick(l, r float32, ch int) float32 {
	if ch%2 == 1 {
		return r
	}
	return l
}

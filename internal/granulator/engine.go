// Package granulator is a reference granulation engine: a mono capture buffer
// read by a fixed pool of enveloped, panned grains.
package granulator

import (
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"
	approx "github.com/meko-christian/algo-approx"
)

const twoPi = math.Pi * 2

const maxGrains = 64

// Params controls the granulation engine.
type Params struct {
	Grains       int
	EnvelopeSize int
	FadeSamples  int // taper applied to both capture edges once full
	MasterGain   float64
}

// DefaultParams returns sensible defaults for granular playback.
func DefaultParams() Params {
	return Params{
		Grains:       16,
		EnvelopeSize: 512,
		FadeSamples:  64,
		MasterGain:   0.5,
	}
}

type grain struct {
	active bool
	pos    float64 // read position in the capture buffer
	rate   float64
	envPos float64
	envInc float64
	gainL  float64
	gainR  float64
	born   int64
}

// Engine records into a capture buffer and plays grains from it.
type Engine struct {
	sampleRate float64
	params     Params
	buffer     []float64
	fadeIn     []float64
	fadeOut    []float64
	writePos   int
	full       bool
	grains     []grain
	env        []float64
	clock      int64
	masterGain atomic.Uint64
}

// New creates an engine at sampleRate with an empty, full-length buffer of
// bufferSamples. The buffer counts as captured until ResetRecord is called.
func New(sampleRate int, bufferSamples int, params Params) *Engine {
	if params.Grains <= 0 {
		params.Grains = DefaultParams().Grains
	}
	if params.Grains > maxGrains {
		params.Grains = maxGrains
	}
	if params.EnvelopeSize < 2 {
		params.EnvelopeSize = DefaultParams().EnvelopeSize
	}
	e := &Engine{
		params: params,
		grains: make([]grain, params.Grains),
		env:    hann(params.EnvelopeSize),
	}
	e.SetMasterGain(params.MasterGain)
	e.SetSampleRate(float64(sampleRate))
	e.SetBufferSize(bufferSamples)
	return e
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(twoPi*float64(i)/float64(n-1))
	}
	return w
}

func (e *Engine) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
}

// SetBufferSize reallocates the capture buffer. Call only from host setup.
func (e *Engine) SetBufferSize(samples int) {
	if samples < 1 {
		samples = 1
	}
	e.buffer = make([]float64, samples)
	e.writePos = samples
	e.full = true

	fade := e.params.FadeSamples
	if fade > samples/2 {
		fade = samples / 2
	}
	e.fadeIn = make([]float64, fade)
	e.fadeOut = make([]float64, fade)
	for i := 0; i < fade; i++ {
		g := 0.5 - 0.5*math.Cos(math.Pi*float64(i)/float64(fade))
		e.fadeIn[i] = g
		e.fadeOut[fade-1-i] = g
	}
	e.killGrains()
}

// BufferSize returns the capture length in samples.
func (e *Engine) BufferSize() int { return len(e.buffer) }

// Captured returns how many samples of the current capture have been written.
func (e *Engine) Captured() int { return e.writePos }

// Buffer exposes the capture buffer read-only for inspection.
func (e *Engine) Buffer() []float64 { return e.buffer }

// Load copies samples into the capture buffer and marks it full, for hosts
// that start from a file instead of live input.
func (e *Engine) Load(samples []float32) {
	n := copy64(e.buffer, samples)
	for i := n; i < len(e.buffer); i++ {
		e.buffer[i] = 0
	}
	e.writePos = len(e.buffer)
	e.full = true
	e.fadeEdges()
}

func copy64(dst []float64, src []float32) int {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = float64(src[i])
	}
	return n
}

// Record writes sample into the buffer until it is full. It returns
// complete=false for every sample it captures, including the last one.
func (e *Engine) Record(sample float32) (float32, bool) {
	if e.full {
		return sample, true
	}
	e.buffer[e.writePos] = float64(sample)
	e.writePos++
	if e.writePos == len(e.buffer) {
		e.full = true
		e.fadeEdges()
	}
	return sample, false
}

// ResetRecord restarts capture at the head of the buffer and silences grains.
func (e *Engine) ResetRecord() {
	e.writePos = 0
	e.full = false
	e.killGrains()
}

func (e *Engine) fadeEdges() {
	f := len(e.fadeIn)
	if f == 0 {
		return
	}
	vecmath.MulBlockInPlace(e.buffer[:f], e.fadeIn)
	vecmath.MulBlockInPlace(e.buffer[len(e.buffer)-f:], e.fadeOut)
}

// TriggerNew starts a grain. position and jitter are fractions of the buffer
// (jitter shifts the start forward), duration is in seconds, pan in [-1, 1]
// and rate is the read speed (negative reads backwards).
func (e *Engine) TriggerNew(position, duration, pan, rate, jitter float64) {
	n := float64(len(e.buffer))
	start := position + jitter
	start -= math.Floor(start)

	durSamples := duration * e.sampleRate
	if durSamples < 1 {
		durSamples = 1
	}
	pan = clamp(pan, -1, 1)

	e.clock++
	g := &e.grains[e.stealGrain()]
	*g = grain{
		active: true,
		pos:    start * n,
		rate:   rate,
		envInc: float64(len(e.env)-1) / durSamples,
		gainL:  panGain(0.5 * (1 - pan)),
		gainR:  panGain(0.5 * (1 + pan)),
		born:   e.clock,
	}
}

// Play renders one stereo frame from every active grain.
func (e *Engine) Play() [2]float32 {
	var l, r float64
	n := float64(len(e.buffer))
	last := float64(len(e.env) - 1)
	for i := range e.grains {
		g := &e.grains[i]
		if !g.active {
			continue
		}
		s := lerpWrap(e.buffer, g.pos) * lerpClamp(e.env, g.envPos)
		l += s * g.gainL
		r += s * g.gainR

		g.pos += g.rate
		for g.pos >= n {
			g.pos -= n
		}
		for g.pos < 0 {
			g.pos += n
		}
		g.envPos += g.envInc
		if g.envPos >= last {
			g.active = false
		}
	}
	gain := e.masterGainValue()
	return [2]float32{float32(clamp(l*gain, -1, 1)), float32(clamp(r*gain, -1, 1))}
}

// SetMasterGain sets the output gain atomically.
func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	e.masterGain.Store(math.Float64bits(gain))
}

// ActiveGrainCount returns the number of grains still sounding.
func (e *Engine) ActiveGrainCount() int {
	n := 0
	for i := range e.grains {
		if e.grains[i].active {
			n++
		}
	}
	return n
}

// --- internal helpers ---

func (e *Engine) masterGainValue() float64 {
	return math.Float64frombits(e.masterGain.Load())
}

func (e *Engine) killGrains() {
	for i := range e.grains {
		e.grains[i].active = false
	}
}

// stealGrain returns a free slot, or the oldest grain when all are busy.
func (e *Engine) stealGrain() int {
	oldest := 0
	for i := range e.grains {
		if !e.grains[i].active {
			return i
		}
		if e.grains[i].born < e.grains[oldest].born {
			oldest = i
		}
	}
	return oldest
}

// panGain is the equal-power gain for one side.
func panGain(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return approx.FastSqrt(x)
}

func lerpWrap(buf []float64, pos float64) float64 {
	i0 := int(pos)
	if i0 >= len(buf) {
		i0 = len(buf) - 1
	}
	frac := pos - float64(i0)
	i1 := i0 + 1
	if i1 == len(buf) {
		i1 = 0
	}
	return buf[i0]*(1-frac) + buf[i1]*frac
}

func lerpClamp(table []float64, pos float64) float64 {
	i0 := int(pos)
	if i0 >= len(table)-1 {
		return table[len(table)-1]
	}
	frac := pos - float64(i0)
	return table[i0]*(1-frac) + table[i0+1]*frac
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

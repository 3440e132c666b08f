// Package params is the host-side parameter layer: ranges, defaults,
// lock-free targets written by the control thread and per-frame smoothing
// read by the audio thread.
package params

import (
	"math"
	"sync/atomic"
)

// RangeKind selects the mapping between plain and normalized values.
type RangeKind int

const (
	RangeLinear RangeKind = iota
	RangeSkewed
)

// Range bounds a float parameter. Skewed ranges spend more of the normalized
// span near Min when Factor < 1.
type Range struct {
	Kind     RangeKind
	Min, Max float64
	Factor   float64
}

func LinearRange(min, max float64) Range {
	return Range{Kind: RangeLinear, Min: min, Max: max, Factor: 1}
}

func SkewedRange(min, max, factor float64) Range {
	return Range{Kind: RangeSkewed, Min: min, Max: max, Factor: factor}
}

// Clamp limits v to [Min, Max]. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min || math.IsNaN(v) {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Normalize maps a plain value into [0, 1].
func (r Range) Normalize(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	n := (r.Clamp(v) - r.Min) / (r.Max - r.Min)
	if r.Kind == RangeSkewed && r.Factor > 0 {
		n = math.Pow(n, r.Factor)
	}
	return n
}

// Unnormalize maps [0, 1] back into the plain range.
func (r Range) Unnormalize(n float64) float64 {
	n = math.Max(0, math.Min(1, n))
	if r.Kind == RangeSkewed && r.Factor > 0 {
		n = math.Pow(n, 1/r.Factor)
	}
	return r.Min + n*(r.Max-r.Min)
}

// FloatParam is a smoothed float parameter. Set and Value may be called from
// any goroutine; Next and SetSampleRate belong to the audio thread.
type FloatParam struct {
	ID      string
	Name    string
	Unit    string
	Range   Range
	Default float64
	target  atomic.Uint64
	seen    uint64
	smooth  smoother
	hasSeen bool
}

// NewFloat creates a parameter at its default value.
func NewFloat(id, name string, def float64, r Range, smoothing Smoothing, unit string) *FloatParam {
	p := &FloatParam{
		ID:      id,
		Name:    name,
		Unit:    unit,
		Range:   r,
		Default: r.Clamp(def),
	}
	p.smooth.style = smoothing
	p.target.Store(math.Float64bits(p.Default))
	p.smooth.reset(p.Default)
	return p
}

// Set stores a new target, clamped to the range. NaN is ignored and the
// previous target kept.
func (p *FloatParam) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	p.target.Store(math.Float64bits(p.Range.Clamp(v)))
}

// Value returns the current target (unsmoothed).
func (p *FloatParam) Value() float64 {
	return math.Float64frombits(p.target.Load())
}

// SetNormalized sets the target from a [0, 1] host automation value.
func (p *FloatParam) SetNormalized(n float64) {
	p.Set(p.Range.Unnormalize(n))
}

// Normalized returns the target as a [0, 1] host automation value.
func (p *FloatParam) Normalized() float64 {
	return p.Range.Normalize(p.Value())
}

// SetSampleRate sizes the smoothing ramp and snaps to the current target.
func (p *FloatParam) SetSampleRate(sampleRate float64) {
	p.smooth.setSampleRate(sampleRate)
	bits := p.target.Load()
	p.seen = bits
	p.hasSeen = true
	p.smooth.reset(math.Float64frombits(bits))
}

// Next advances the smoother by one frame and returns the smoothed value.
func (p *FloatParam) Next() float64 {
	bits := p.target.Load()
	if !p.hasSeen || bits != p.seen {
		p.seen = bits
		p.hasSeen = true
		p.smooth.retarget(math.Float64frombits(bits))
	}
	return p.smooth.next()
}

// BoolParam is an unsmoothed switch.
type BoolParam struct {
	ID      string
	Name    string
	Default bool
	value   atomic.Bool
}

func NewBool(id, name string, def bool) *BoolParam {
	p := &BoolParam{ID: id, Name: name, Default: def}
	p.value.Store(def)
	return p
}

func (p *BoolParam) Set(v bool)  { p.value.Store(v) }
func (p *BoolParam) Value() bool { return p.value.Load() }

// EnumParam is an unsmoothed choice among Count options.
type EnumParam struct {
	ID      string
	Name    string
	Default int
	Count   int
	value   atomic.Int32
}

func NewEnum(id, name string, def, count int) *EnumParam {
	p := &EnumParam{ID: id, Name: name, Default: def, Count: count}
	p.value.Store(int32(def))
	return p
}

// Set ignores out-of-range choices.
func (p *EnumParam) Set(v int) {
	if v < 0 || v >= p.Count {
		return
	}
	p.value.Store(int32(v))
}

func (p *EnumParam) Value() int { return int(p.value.Load()) }

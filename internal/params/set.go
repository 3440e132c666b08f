package params

import "github.com/cbegin/havregryn-go/internal/wavetable"

// Frame is one frame's worth of control values.
type Frame struct {
	Position  float64
	Duration  float64
	Jitter    float64
	Interval  float64
	Spread    float64
	Rate      float64
	ModAmount float64
	ModFreq   float64
	ModShape  wavetable.Shape
	Random    bool
	Resample  bool
}

// Set is the full control surface of the sampler.
type Set struct {
	Position  *FloatParam
	Duration  *FloatParam
	Jitter    *FloatParam
	Trigger   *FloatParam
	Spread    *FloatParam
	Rate      *FloatParam
	ModAmount *FloatParam
	ModFreq   *FloatParam
	ModShape  *EnumParam
	Random    *BoolParam
	Resample  *BoolParam
}

// NewSet returns every parameter at its default.
func NewSet() *Set {
	return &Set{
		Position:  NewFloat("position", "position", 0, LinearRange(0, 1), Smoothing{}, ""),
		Duration:  NewFloat("duration", "grain length", 0.2, SkewedRange(0.05, 2.5, 0.8), Smoothing{}, "sec"),
		Jitter:    NewFloat("jitter", "jitter amount", 0, SkewedRange(0.001, 1, 1.46), Linear(20), ""),
		Trigger:   NewFloat("trigger", "trigger interval", 0.3, SkewedRange(0.03, 2.5, 0.8), Smoothing{}, "sec"),
		Spread:    NewFloat("spread", "stereo spread", 0, LinearRange(0, 1), Linear(20), ""),
		Rate:      NewFloat("rate", "speed", 1, LinearRange(-1, 1), Smoothing{}, ""),
		ModAmount: NewFloat("rate-mod-amount", "mod amount", 0, SkewedRange(0.002, 1, 0.46), Logarithmic(50), ""),
		ModFreq:   NewFloat("rate-mod-freq", "mod freq", 12, SkewedRange(0.2, 60, 0.3), Linear(20), "Hz"),
		ModShape:  NewEnum("rate-mod-shape", "mod shape", int(wavetable.Sine), int(wavetable.Square)+1),
		Random:    NewBool("random", "random", false),
		Resample:  NewBool("resample", "sample", false),
	}
}

// Floats lists the smoothed parameters in declaration order.
func (s *Set) Floats() []*FloatParam {
	return []*FloatParam{s.Position, s.Duration, s.Jitter, s.Trigger, s.Spread, s.Rate, s.ModAmount, s.ModFreq}
}

// Float looks a smoothed parameter up by ID.
func (s *Set) Float(id string) (*FloatParam, bool) {
	for _, p := range s.Floats() {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// SetSampleRate resizes every smoother.
func (s *Set) SetSampleRate(sampleRate float64) {
	for _, p := range s.Floats() {
		p.SetSampleRate(sampleRate)
	}
}

// Next pulls exactly one smoothed value from every parameter.
func (s *Set) Next(f *Frame) {
	f.Position = s.Position.Next()
	f.Duration = s.Duration.Next()
	f.Jitter = s.Jitter.Next()
	f.Interval = s.Trigger.Next()
	f.Spread = s.Spread.Next()
	f.Rate = s.Rate.Next()
	f.ModAmount = s.ModAmount.Next()
	f.ModFreq = s.ModFreq.Next()
	f.ModShape = wavetable.Shape(s.ModShape.Value())
	f.Random = s.Random.Value()
	f.Resample = s.Resample.Value()
}

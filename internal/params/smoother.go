package params

import "math"

// SmoothingKind selects how a parameter ramps toward a new target.
type SmoothingKind int

const (
	SmoothNone SmoothingKind = iota
	SmoothLinear
	// SmoothLogarithmic ramps multiplicatively; it needs a target and current
	// value of the same sign and falls back to linear otherwise.
	SmoothLogarithmic
)

// Smoothing is a ramp kind and its length in milliseconds.
type Smoothing struct {
	Kind SmoothingKind
	Ms   float64
}

func Linear(ms float64) Smoothing      { return Smoothing{Kind: SmoothLinear, Ms: ms} }
func Logarithmic(ms float64) Smoothing { return Smoothing{Kind: SmoothLogarithmic, Ms: ms} }

// smoother is audio-thread state; it is never touched by the control side.
type smoother struct {
	style      Smoothing
	current    float64
	target     float64
	step       float64
	stepsLeft  int
	totalSteps int
	mul        bool
}

func (s *smoother) setSampleRate(sampleRate float64) {
	s.totalSteps = int(math.Round(s.style.Ms / 1000 * sampleRate))
	if s.style.Kind == SmoothNone || s.totalSteps < 1 {
		s.totalSteps = 0
	}
}

// reset jumps to value with no ramp.
func (s *smoother) reset(value float64) {
	s.current = value
	s.target = value
	s.stepsLeft = 0
}

func (s *smoother) retarget(target float64) {
	s.target = target
	if s.totalSteps == 0 {
		s.current = target
		s.stepsLeft = 0
		return
	}
	s.stepsLeft = s.totalSteps
	n := float64(s.totalSteps)
	if s.style.Kind == SmoothLogarithmic && s.current*target > 0 {
		s.mul = true
		s.step = math.Pow(target/s.current, 1/n)
		return
	}
	s.mul = false
	s.step = (target - s.current) / n
}

func (s *smoother) next() float64 {
	if s.stepsLeft == 0 {
		return s.current
	}
	s.stepsLeft--
	if s.stepsLeft == 0 {
		s.current = s.target
		return s.current
	}
	if s.mul {
		s.current *= s.step
	} else {
		s.current += s.step
	}
	return s.current
}

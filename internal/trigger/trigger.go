// Package trigger provides the grain-onset sources. Every source is meant to
// be played once per frame whether or not its output is used, so switching
// between them never restarts a period.
package trigger

// Threshold is the output level at or above which a source counts as fired.
const Threshold = 1.0

// Source produces one control value per frame for the given interval.
type Source interface {
	Play(intervalSec float64) float64
	SetSampleRate(sampleRate float64)
	Reset()
}

// Rand is the uniform generator used by stochastic sources. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Fired reports whether a source output marks an onset.
func Fired(v float64) bool {
	return v >= Threshold
}

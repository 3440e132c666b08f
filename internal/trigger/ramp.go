package trigger

// Ramp moves linearly toward a new random target in [-1, 1] every interval.
// The interval is sampled only when a segment starts, so changes take effect
// at the next segment boundary.
type Ramp struct {
	value           float64
	increment       float64
	counter         int
	durationSamples int
	sampleRate      float64
	rng             Rand
}

func NewRamp(sampleRate float64, rng Rand) *Ramp {
	return &Ramp{sampleRate: sampleRate, rng: rng}
}

func (r *Ramp) SetSampleRate(sampleRate float64) {
	r.sampleRate = sampleRate
}

// Reset returns the ramp to zero and forces a new segment on the next Play.
func (r *Ramp) Reset() {
	r.value = 0
	r.increment = 0
	r.counter = 0
	r.durationSamples = 0
}

// Value returns the last output without advancing.
func (r *Ramp) Value() float64 { return r.value }

// Counter returns the frames elapsed in the current segment.
func (r *Ramp) Counter() int { return r.counter }

// Play advances one frame and returns the ramp value.
func (r *Ramp) Play(intervalSec float64) float64 {
	r.counter++
	if r.counter >= r.durationSamples {
		r.durationSamples = int(intervalSec * r.sampleRate)
		if r.durationSamples < 1 {
			r.durationSamples = 1
		}
		r.counter = 0
		target := r.rng.Float64()*2 - 1
		r.increment = (target - r.value) / float64(r.durationSamples)
	}
	r.value += r.increment
	return r.value
}

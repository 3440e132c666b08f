package trigger

import "math"

// Dust fires a 1.0 at random frames. Each frame fires with probability
// 1/(interval*sampleRate), so onsets form a Bernoulli process whose mean
// spacing is the interval. One random value is drawn every frame.
type Dust struct {
	sampleRate float64
	rng        Rand
	fired      int64
}

func NewDust(sampleRate float64, rng Rand) *Dust {
	return &Dust{sampleRate: sampleRate, rng: rng}
}

func (d *Dust) SetSampleRate(sampleRate float64) {
	d.sampleRate = sampleRate
}

func (d *Dust) Reset() { d.fired = 0 }

// Fires returns the onsets emitted since the last Reset.
func (d *Dust) Fires() int64 { return d.fired }

// Play advances one frame. An interval shorter than one frame fires every
// frame; a non-finite interval never fires.
func (d *Dust) Play(intervalSec float64) float64 {
	u := d.rng.Float64()
	period := intervalSec * d.sampleRate
	if math.IsNaN(period) || math.IsInf(period, 0) {
		return 0
	}
	if period > 1 && u*period >= 1 {
		return 0
	}
	d.fired++
	return Threshold
}

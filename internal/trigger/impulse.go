package trigger

// Impulse fires a single 1.0 every interval and 0 otherwise.
type Impulse struct {
	elapsed    int
	period     int
	sampleRate float64
}

func NewImpulse(sampleRate float64) *Impulse {
	return &Impulse{sampleRate: sampleRate}
}

func (i *Impulse) SetSampleRate(sampleRate float64) {
	i.sampleRate = sampleRate
}

// Reset restarts the period count.
func (i *Impulse) Reset() {
	i.elapsed = 0
}

// Elapsed returns the samples counted since the last firing.
func (i *Impulse) Elapsed() int { return i.elapsed }

// Play advances one frame. An interval <= 0 fires every frame.
func (i *Impulse) Play(intervalSec float64) float64 {
	i.period = int(intervalSec * i.sampleRate)
	out := 0.0
	if i.elapsed >= i.period {
		i.elapsed = 0
		out = 1
	}
	i.elapsed++
	return out
}

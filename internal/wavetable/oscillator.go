package wavetable

import "math"

// Oscillator reads a Table by phase accumulation. Position is kept in table
// index units and is always in [0, len(table)) after Advance.
type Oscillator struct {
	position   float64
	sampleRate float64
	srRecip    float64
}

// NewOscillator returns an oscillator at phase zero.
func NewOscillator(sampleRate float64) *Oscillator {
	o := &Oscillator{}
	o.SetSampleRate(sampleRate)
	return o
}

// SetSampleRate updates the rate used to convert Hz into table steps.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	if sampleRate > 0 {
		o.srRecip = 1 / sampleRate
	} else {
		o.srRecip = 0
	}
}

// Position returns the current phase in table index units.
func (o *Oscillator) Position() float64 { return o.position }

// Reset zeros the phase.
func (o *Oscillator) Reset() { o.position = 0 }

// Advance steps the phase by frequency (Hz, negative plays backwards) plus
// phaseOffset table lengths and returns the linearly interpolated table value.
// Frequencies above Nyquist and non-finite inputs return 0 and leave the
// phase untouched.
func (o *Oscillator) Advance(table Table, frequency, phaseOffset float64) float32 {
	if len(table) == 0 || !(frequency <= o.sampleRate*0.5) {
		return 0
	}
	n := float64(len(table))
	pos := o.position + n*o.srRecip*frequency + phaseOffset*n
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0
	}
	pos = math.Mod(pos, n)
	if pos < 0 {
		pos += n
	}
	if pos >= n {
		// -tiny + n can round up to n
		pos = 0
	}
	o.position = pos
	return lerp(table, pos)
}

func lerp(table Table, pos float64) float32 {
	i0 := int(pos)
	if i0 >= len(table) {
		i0 = len(table) - 1
	}
	frac := float32(pos - float64(i0))
	i1 := i0 + 1
	if i1 == len(table) {
		i1 = 0
	}
	return table[i0]*(1-frac) + table[i1]*frac
}

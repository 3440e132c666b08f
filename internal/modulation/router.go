// Package modulation combines the base rate, the MIDI note rate and the
// wavetable modulator into a grain playback rate.
package modulation

import (
	"github.com/cbegin/havregryn-go/internal/wavetable"
)

// Rand is the uniform generator used for per-onset pan and jitter draws.
type Rand interface {
	Float64() float64
}

// RateLookup maps a MIDI note to a rate ratio.
type RateLookup interface {
	RateFor(note int) float64
}

// Router owns the modulation oscillator and the shape tables.
type Router struct {
	osc   *wavetable.Oscillator
	bank  *wavetable.Bank
	rates RateLookup
	rng   Rand
	value float64
}

func NewRouter(sampleRate float64, bank *wavetable.Bank, rates RateLookup, rng Rand) *Router {
	return &Router{
		osc:   wavetable.NewOscillator(sampleRate),
		bank:  bank,
		rates: rates,
		rng:   rng,
	}
}

func (r *Router) SetSampleRate(sampleRate float64) {
	r.osc.SetSampleRate(sampleRate)
}

// Reset zeros the oscillator phase.
func (r *Router) Reset() {
	r.osc.Reset()
	r.value = 0
}

// Modulate advances the oscillator one frame at freq with the table for shape
// and returns the new modulator value.
func (r *Router) Modulate(shape wavetable.Shape, freq float64) float64 {
	r.value = float64(r.osc.Advance(r.bank.Table(shape), freq, 0))
	return r.value
}

// Value returns the last modulator output.
func (r *Router) Value() float64 { return r.value }

// ComputeRate is baseRate scaled by the note's rate plus the modulation offset.
func (r *Router) ComputeRate(baseRate float64, note int, modAmount, modValue float64) float64 {
	return baseRate*r.rates.RateFor(note) + modAmount*modValue
}

// DrawOnset scales pan by a uniform draw in [-1, 1] and jitter by one in
// [0, 1]. Call once per onset so every note of the onset shares the draws.
func (r *Router) DrawOnset(pan, jitter float64) (float64, float64) {
	pan *= r.rng.Float64()*2 - 1
	jitter *= r.rng.Float64()
	return pan, jitter
}

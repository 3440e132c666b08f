package processor

import (
	"math/rand/v2"

	"github.com/cbegin/havregryn-go/internal/event"
	"github.com/cbegin/havregryn-go/internal/wavetable"
)

// Rand is the uniform source shared by the stochastic trigger and the
// per-onset pan/jitter draws.
type Rand interface {
	Float64() float64
}

// Option configures a Processor.
type Option func(*config)

type config struct {
	drain         event.DrainPolicy
	recordOnStart bool
	rng           Rand
	tableSize     int
}

func defaultConfig() config {
	return config{
		drain:         event.StopAtFirstNonNote,
		recordOnStart: true,
		tableSize:     wavetable.DefaultSize,
	}
}

// WithDrainPolicy chooses how a frame's MIDI events are drained.
func WithDrainPolicy(policy event.DrainPolicy) Option {
	return func(cfg *config) {
		cfg.drain = policy
	}
}

// WithRecordOnStart makes the first frames capture input before any grain
// can play. When disabled the engine's buffer is used as-is.
func WithRecordOnStart(enabled bool) Option {
	return func(cfg *config) {
		cfg.recordOnStart = enabled
	}
}

// WithRand installs the random source, mainly for deterministic tests.
func WithRand(rng Rand) Option {
	return func(cfg *config) {
		cfg.rng = rng
	}
}

// WithSeed seeds a PCG random source.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		cfg.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithTableSize sets the modulation wavetable length.
func WithTableSize(size int) Option {
	return func(cfg *config) {
		if size > 1 {
			cfg.tableSize = size
		}
	}
}

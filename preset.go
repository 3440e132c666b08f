package havregryn

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/cbegin/havregryn-go/internal/params"
	"github.com/cbegin/havregryn-go/internal/wavetable"
)

// Preset is a snapshot of every persistent parameter in plain units.
// Resample is momentary and never stored.
type Preset struct {
	Position     float64 `json:"position"`
	Duration     float64 `json:"duration"`
	Jitter       float64 `json:"jitter"`
	Trigger      float64 `json:"trigger"`
	Spread       float64 `json:"spread"`
	Rate         float64 `json:"rate"`
	ModAmount    float64 `json:"rate_mod_amount"`
	ModFrequency float64 `json:"rate_mod_freq"`
	ModShape     string  `json:"rate_mod_shape"`
	Random       bool    `json:"random"`
}

// DefaultPreset returns the parameter defaults.
func DefaultPreset() Preset {
	return Snapshot(params.NewSet())
}

// Snapshot captures the current targets of set.
func Snapshot(set *Controls) Preset {
	return Preset{
		Position:     set.Position.Value(),
		Duration:     set.Duration.Value(),
		Jitter:       set.Jitter.Value(),
		Trigger:      set.Trigger.Value(),
		Spread:       set.Spread.Value(),
		Rate:         set.Rate.Value(),
		ModAmount:    set.ModAmount.Value(),
		ModFrequency: set.ModFreq.Value(),
		ModShape:     wavetable.Shape(set.ModShape.Value()).String(),
		Random:       set.Random.Value(),
	}
}

// Apply writes p into set. Values outside a parameter's range are clamped.
// An empty shape keeps the current one.
func (p Preset) Apply(set *Controls) error {
	if p.ModShape != "" {
		shape, ok := wavetable.ParseShape(p.ModShape)
		if !ok {
			return errors.Errorf("unknown modulation shape %q", p.ModShape)
		}
		set.ModShape.Set(int(shape))
	}
	set.Position.Set(p.Position)
	set.Duration.Set(p.Duration)
	set.Jitter.Set(p.Jitter)
	set.Trigger.Set(p.Trigger)
	set.Spread.Set(p.Spread)
	set.Rate.Set(p.Rate)
	set.ModAmount.Set(p.ModAmount)
	set.ModFreq.Set(p.ModFrequency)
	set.Random.Set(p.Random)
	return nil
}

// LoadPreset reads a JSON preset. Fields missing from the file keep their
// defaults; a leading ~ in path is expanded.
func LoadPreset(path string) (Preset, error) {
	p := DefaultPreset()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return p, errors.Wrapf(err, "expand preset path %q", path)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return p, errors.Wrap(err, "read preset")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "decode preset %s", expanded)
	}
	if _, ok := wavetable.ParseShape(p.ModShape); !ok {
		return p, errors.Errorf("preset %s: unknown modulation shape %q", expanded, p.ModShape)
	}
	return p, nil
}

// SavePreset writes p as indented JSON, creating parent directories.
func SavePreset(path string, p Preset) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "expand preset path %q", path)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode preset")
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return errors.Wrap(err, "create preset directory")
	}
	if err := os.WriteFile(expanded, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "write preset")
	}
	return nil
}

package havregryn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/havregryn-go/internal/params"
	"github.com/cbegin/havregryn-go/internal/wavetable"
)

func TestPresetSaveLoadRoundTrip(t *testing.T) {
	want := Preset{
		Position:     0.25,
		Duration:     0.5,
		Jitter:       0.1,
		Trigger:      0.1,
		Spread:       0.5,
		Rate:         -0.5,
		ModAmount:    0.2,
		ModFrequency: 3,
		ModShape:     "square",
		Random:       true,
	}
	path := filepath.Join(t.TempDir(), "nested", "p.json")
	if err := SavePreset(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", want, got)
	}
}

func TestLoadPresetKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"rate": 0.5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultPreset()
	want.Rate = 0.5
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"rate_mod_shape": "noise"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPreset(bad); err == nil {
		t.Fatal("expected error for unknown shape")
	}
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPreset(broken); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := LoadPreset(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestPresetApplyClampsAndSnapshots(t *testing.T) {
	set := params.NewSet()
	p := DefaultPreset()
	p.Rate = 5
	p.ModShape = "saw"
	if err := p.Apply(set); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := set.Rate.Value(); got != 1 {
		t.Fatalf("rate = %f, want clamp to 1", got)
	}
	if got := wavetable.Shape(set.ModShape.Value()); got != wavetable.Sawtooth {
		t.Fatalf("shape = %v, want sawtooth", got)
	}
	snap := Snapshot(set)
	if snap.ModShape != "sawtooth" || snap.Rate != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	p.ModShape = "noise"
	if err := p.Apply(set); err == nil {
		t.Fatal("expected error for unknown shape")
	}
}

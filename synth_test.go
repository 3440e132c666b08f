package havregryn

import (
	"math"
	"testing"
)

func sineInput(sampleRate, frames int, freq, amp float64) Audio {
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return Audio{Samples: samples, Channels: 1, SampleRate: sampleRate}
}

func TestNewSynthRejectsBadSampleRate(t *testing.T) {
	if _, err := NewSynth(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestProcessPassesInputThroughWhileCapturing(t *testing.T) {
	s, err := NewSynth(8000, WithCaptureSamples(1000), WithSeed(1))
	if err != nil {
		t.Fatalf("new synth: %v", err)
	}
	in := make([]float32, 1000)
	for i := range in {
		in[i] = 0.25
	}
	out := make([]float32, 2000)
	s.Process(in, out, []Event{NoteOnAt(0, 60)})
	for i, v := range out {
		if v != 0.25 {
			t.Fatalf("out[%d] = %f, want pass-through 0.25", i, v)
		}
	}
	if !s.Capturing() {
		t.Fatal("synth should still be capturing on the last buffer frame")
	}
	s.Process(nil, make([]float32, 2), nil)
	if s.Capturing() {
		t.Fatal("capture should be complete")
	}
}

func TestRenderPreloadStartsGrainsOnFirstOnset(t *testing.T) {
	input := sineInput(8000, 4000, 220, 0.5)
	preset := DefaultPreset()
	preset.Trigger = 0.03
	out, err := Render(input, RenderConfig{Notes: []int{60}, Preload: true}, WithSeed(3), WithPreset(preset))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Channels != 2 || out.Frames() != 4000 {
		t.Fatalf("got %d channels, %d frames", out.Channels, out.Frames())
	}
	onset := int(0.03 * 8000)
	for i := 0; i < onset*2; i++ {
		if out.Samples[i] != 0 {
			t.Fatalf("sample %d = %f before the first onset", i, out.Samples[i])
		}
	}
	var energy float64
	for _, v := range out.Samples[onset*2:] {
		energy += float64(v) * float64(v)
	}
	if energy == 0 {
		t.Fatal("no grain output after the first onset")
	}
}

func TestRenderWithoutNotesIsSilent(t *testing.T) {
	input := sineInput(8000, 2000, 220, 0.5)
	out, err := Render(input, RenderConfig{Preload: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i, v := range out.Samples {
		if v != 0 {
			t.Fatalf("sample %d = %f with no held notes", i, v)
		}
	}
}

func TestRenderIsDeterministicBySeed(t *testing.T) {
	input := sineInput(8000, 4000, 330, 0.5)
	preset := DefaultPreset()
	preset.Trigger = 0.03
	preset.Spread = 1
	preset.Jitter = 0.5
	cfg := RenderConfig{Notes: []int{60, 67}, Preload: true}

	render := func(seed uint64) []float32 {
		t.Helper()
		out, err := Render(input, cfg, WithSeed(seed), WithPreset(preset))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		return out.Samples
	}
	a, b, c := render(42), render(42), render(43)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between equal seeds: %f vs %f", i, a[i], b[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical output")
	}
}

func TestRenderDefaultLengthCoversCaptureAndPlayback(t *testing.T) {
	input := sineInput(8000, 1000, 220, 0.5)
	out, err := Render(input, RenderConfig{Notes: []int{60}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Frames() != 2000 {
		t.Fatalf("frames = %d, want 2000", out.Frames())
	}
	for i := 0; i < 1000; i++ {
		if out.Samples[2*i] != input.Samples[i] {
			t.Fatalf("frame %d not passed through", i)
		}
	}
}

func TestRenderRejectsMissingSampleRate(t *testing.T) {
	if _, err := Render(Audio{}, RenderConfig{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStatsCountGrainsPerNote(t *testing.T) {
	preset := DefaultPreset()
	preset.Trigger = 0.05
	s, err := NewSynth(1000, WithRecordOnStart(false), WithCaptureSamples(500), WithPreset(preset), WithSeed(9))
	if err != nil {
		t.Fatalf("new synth: %v", err)
	}
	out := make([]float32, 2*200)
	s.Process(nil, out, []Event{NoteOnAt(0, 60), NoteOnAt(0, 64)})
	frames, onsets, grains := s.Stats()
	if frames != 200 {
		t.Fatalf("frames = %d, want 200", frames)
	}
	if onsets != 3 {
		t.Fatalf("onsets = %d, want 3 (frames 50, 100, 150)", onsets)
	}
	if grains != 2*onsets {
		t.Fatalf("grains = %d, want %d", grains, 2*onsets)
	}
}

package granulator

import (
	"math"
	"testing"

	"github.com/cbegin/havregryn-go/internal/processor"
)

var _ processor.Engine = (*Engine)(nil)

func TestRecordFillsThenReportsComplete(t *testing.T) {
	e := New(48000, 8, DefaultParams())
	if _, complete := e.Record(0.3); !complete {
		t.Fatal("a fresh buffer should count as captured")
	}
	e.ResetRecord()
	for i := 0; i < 8; i++ {
		out, complete := e.Record(0.5)
		if complete {
			t.Fatalf("sample %d reported complete while filling", i)
		}
		if out != 0.5 {
			t.Fatalf("record should pass the sample through, got %f", out)
		}
	}
	if out, complete := e.Record(0.7); !complete || out != 0.7 {
		t.Fatalf("full buffer: got %f/%v, want 0.7/true", out, complete)
	}
	if e.Captured() != 8 {
		t.Fatalf("captured = %d, want 8", e.Captured())
	}
}

func TestCaptureEdgesAreFaded(t *testing.T) {
	p := DefaultParams()
	p.FadeSamples = 4
	e := New(48000, 32, p)
	e.ResetRecord()
	for i := 0; i < 32; i++ {
		e.Record(1)
	}
	buf := e.Buffer()
	if buf[0] != 0 || buf[31] >= 1 || buf[16] != 1 {
		t.Fatalf("edges not tapered: first=%f last=%f mid=%f", buf[0], buf[31], buf[16])
	}
	for i := 1; i < 4; i++ {
		if buf[i] <= buf[i-1] {
			t.Fatalf("fade-in not rising at %d: %v", i, buf[:4])
		}
	}
}

func TestGrainPlaysEnvelopedBuffer(t *testing.T) {
	e := New(1000, 1000, DefaultParams())
	samples := make([]float32, 1000)
	for i := range samples {
		samples[i] = 0.5
	}
	e.Load(samples)
	e.SetMasterGain(1)
	e.TriggerNew(0.5, 0.1, 0, 1, 0) // 100 samples
	var peak float64
	frames := 0
	for e.ActiveGrainCount() > 0 && frames < 1000 {
		f := e.Play()
		if math.Abs(float64(f[0]-f[1])) > 1e-3 {
			t.Fatalf("centred grain should be balanced, got %v", f)
		}
		peak = math.Max(peak, float64(f[0]))
		frames++
	}
	if frames < 99 || frames > 101 {
		t.Fatalf("grain lasted %d frames, want ~100", frames)
	}
	want := 0.5 * math.Sqrt(0.5)
	if math.Abs(peak-want) > 0.02 {
		t.Fatalf("peak = %f, want ~%f", peak, want)
	}
}

func TestHardPanSilencesOtherSide(t *testing.T) {
	e := New(1000, 100, DefaultParams())
	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 1
	}
	e.Load(samples)
	e.TriggerNew(0.5, 0.02, -1, 1, 0)
	for i := 0; i < 10; i++ {
		if f := e.Play(); f[1] != 0 {
			t.Fatalf("hard-left grain leaked into the right channel: %v", f)
		}
	}
}

func TestNegativeRateWraps(t *testing.T) {
	e := New(1000, 10, DefaultParams())
	e.TriggerNew(0, 1, 0, -3, 0)
	for i := 0; i < 50; i++ {
		e.Play()
		if p := e.grains[0].pos; p < 0 || p >= 10 {
			t.Fatalf("read position %f escaped the buffer", p)
		}
	}
}

func TestGrainStealingTakesOldest(t *testing.T) {
	p := DefaultParams()
	p.Grains = 2
	e := New(1000, 100, p)
	e.TriggerNew(0.1, 1, 0, 1, 0)
	e.TriggerNew(0.2, 1, 0, 1, 0)
	e.TriggerNew(0.3, 1, 0, 1, 0)
	if e.ActiveGrainCount() != 2 {
		t.Fatalf("active = %d, want 2", e.ActiveGrainCount())
	}
	if math.Abs(e.grains[0].pos-30) > 1e-9 {
		t.Fatalf("oldest slot not reused, pos = %f", e.grains[0].pos)
	}
}

func TestJitterWrapsStart(t *testing.T) {
	e := New(1000, 100, DefaultParams())
	e.TriggerNew(0.9, 1, 0, 1, 0.3)
	if math.Abs(e.grains[0].pos-20) > 1e-6 {
		t.Fatalf("start = %f, want 20", e.grains[0].pos)
	}
}

func TestResetRecordSilencesGrains(t *testing.T) {
	e := New(1000, 100, DefaultParams())
	e.TriggerNew(0, 1, 0, 1, 0)
	e.ResetRecord()
	if e.ActiveGrainCount() != 0 {
		t.Fatal("grains should stop when capture restarts")
	}
}

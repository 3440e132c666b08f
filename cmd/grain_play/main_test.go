package main

import (
	"testing"

	"github.com/cbegin/havregryn-go"
	"github.com/cbegin/havregryn-go/internal/params"
)

type fakePlayer struct {
	controls  *params.Set
	on, off   []int
	resamples int
}

func (f *fakePlayer) NoteOn(n int) bool             { f.on = append(f.on, n); return true }
func (f *fakePlayer) NoteOff(n int) bool            { f.off = append(f.off, n); return true }
func (f *fakePlayer) Resample()                     { f.resamples++ }
func (f *fakePlayer) Controls() *havregryn.Controls { return f.controls }

func TestKeyboardTogglesNotes(t *testing.T) {
	fp := &fakePlayer{controls: params.NewSet()}
	kb := newKeyboard(fp)
	kb.handle('a')
	kb.handle('x')
	kb.handle('a')
	kb.handle('z')
	kb.handle('a')
	if len(fp.on) != 2 || fp.on[0] != 60 || fp.on[1] != 72 {
		t.Fatalf("note ons = %v", fp.on)
	}
	if len(fp.off) != 1 || fp.off[0] != 60 {
		t.Fatalf("note offs = %v", fp.off)
	}
	kb.releaseAll()
	if len(fp.off) != 2 || fp.off[1] != 72 {
		t.Fatalf("release all = %v", fp.off)
	}
}

func TestKeyboardControls(t *testing.T) {
	fp := &fakePlayer{controls: params.NewSet()}
	kb := newKeyboard(fp)
	kb.handle('r')
	kb.handle('n')
	kb.handle('3')
	if fp.resamples != 1 {
		t.Fatalf("resamples = %d", fp.resamples)
	}
	if !fp.controls.Random.Value() {
		t.Fatal("random should be on")
	}
	if fp.controls.ModShape.Value() != 2 {
		t.Fatalf("shape = %d, want 2", fp.controls.ModShape.Value())
	}
	if kb.handle('q') {
		t.Fatal("q should quit")
	}
}

func TestLooperWraps(t *testing.T) {
	feed := newLooper([]float32{1, 2, 3})
	dst := make([]float32, 5)
	feed(dst)
	want := []float32{1, 2, 3, 1, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v", dst)
		}
	}
}

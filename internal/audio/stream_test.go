package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

type rampSource struct{ calls int }

func (s *rampSource) Render(dst []float32) {
	s.calls++
	for i := range dst {
		if dst[i] != 0 {
			panic("dst not cleared")
		}
		dst[i] = float32(i) / 10
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	src := &rampSource{}
	r := NewStreamReader(src)
	p := make([]byte, 3*bytesPerFrame+3) // trailing partial frame is ignored
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 3*bytesPerFrame {
		t.Fatalf("n = %d, want %d", n, 3*bytesPerFrame)
	}
	for i := 0; i < 6; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != float32(i)/10 {
			t.Fatalf("sample %d = %f, want %f", i, got, float32(i)/10)
		}
	}
	if r.Frames() != 3 {
		t.Fatalf("frames = %d, want 3", r.Frames())
	}
	// A second read must hand the source a cleared buffer again.
	if _, err := r.Read(p); err != nil {
		t.Fatalf("second read: %v", err)
	}
}

func TestStreamReaderShortReadAndClose(t *testing.T) {
	r := NewStreamReader(&rampSource{})
	if n, err := r.Read(make([]byte, 4)); n != 0 || err != nil {
		t.Fatalf("short read = %d, %v", n, err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(make([]byte, 64)); err != io.EOF {
		t.Fatalf("read after close = %v, want EOF", err)
	}
}

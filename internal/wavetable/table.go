package wavetable

import "math"

const twoPi = math.Pi * 2

// DefaultSize is the table length used by the modulation oscillator.
const DefaultSize = 1 << 13

// Shape selects one of the precomputed modulation waveforms.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Sawtooth
	Square
)

var shapeNames = [...]string{"sine", "triangle", "sawtooth", "square"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShape maps a shape name back to its Shape.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	switch name {
	case "tri":
		return Triangle, true
	case "saw":
		return Sawtooth, true
	case "sqr":
		return Square, true
	}
	return Sine, false
}

// Table is one cycle of a periodic waveform. It is never written after
// construction.
type Table []float32

// NewTable builds a single-cycle table of the given shape. Values span [-1, 1].
func NewTable(shape Shape, size int) Table {
	if size <= 0 {
		size = DefaultSize
	}
	t := make(Table, size)
	n := float64(size)
	for i := range t {
		phase := float64(i) / n
		var v float64
		switch shape {
		case Triangle:
			if phase < 0.5 {
				v = 4.0*phase - 1.0
			} else {
				v = 3.0 - 4.0*phase
			}
		case Sawtooth:
			v = 2.0*phase - 1.0
		case Square:
			if phase < 0.5 {
				v = 1.0
			} else {
				v = -1.0
			}
		default:
			v = math.Sin(twoPi * phase)
		}
		t[i] = float32(v)
	}
	return t
}

// Bank holds one table per Shape, built once for the lifetime of a processor.
type Bank struct {
	tables [4]Table
}

// NewBank precomputes every shape at the given size.
func NewBank(size int) *Bank {
	b := &Bank{}
	for s := Sine; s <= Square; s++ {
		b.tables[s] = NewTable(s, size)
	}
	return b
}

// Table returns the table for shape. Unknown shapes fall back to Sine.
func (b *Bank) Table(shape Shape) Table {
	switch shape {
	case Triangle:
		return b.tables[Triangle]
	case Sawtooth:
		return b.tables[Sawtooth]
	case Square:
		return b.tables[Square]
	default:
		return b.tables[Sine]
	}
}

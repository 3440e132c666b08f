// Package pitch tracks held MIDI notes and maps them to playback rates.
package pitch

import "math"

// NumNotes is the size of the MIDI note range.
const NumNotes = 128

// UnityNote plays at rate 1.
const UnityNote = 60

// MidiToRate converts a MIDI note to a playback-rate ratio relative to UnityNote.
func MidiToRate(note int) float64 {
	return math.Pow(2, float64(note-UnityNote)/12)
}

// RateTable is a precomputed note -> rate lookup.
type RateTable [NumNotes]float64

// NewRateTable fills a RateTable with MidiToRate.
func NewRateTable() *RateTable {
	t := &RateTable{}
	for i := range t {
		t[i] = MidiToRate(i)
	}
	return t
}

// RateFor returns the rate for note. Out-of-range notes play at unity.
func (t *RateTable) RateFor(note int) float64 {
	if note < 0 || note >= NumNotes {
		return 1
	}
	return t[note]
}

// Tracker holds the currently sounding notes in arrival order without
// duplicates. It never allocates after construction.
type Tracker struct {
	notes [NumNotes]uint8
	n     int
	rates *RateTable
}

func NewTracker() *Tracker {
	return &Tracker{rates: NewRateTable()}
}

// NoteOn appends note unless it is already held.
func (t *Tracker) NoteOn(note int) {
	if note < 0 || note >= NumNotes || t.Holds(note) {
		return
	}
	t.notes[t.n] = uint8(note)
	t.n++
}

// NoteOff removes note, preserving the order of the rest. Unknown notes are ignored.
func (t *Tracker) NoteOff(note int) {
	for i := 0; i < t.n; i++ {
		if int(t.notes[i]) == note {
			copy(t.notes[i:t.n-1], t.notes[i+1:t.n])
			t.n--
			return
		}
	}
}

// Holds reports whether note is in the active set.
func (t *Tracker) Holds(note int) bool {
	for i := 0; i < t.n; i++ {
		if int(t.notes[i]) == note {
			return true
		}
	}
	return false
}

// Notes returns the active set in arrival order. The slice aliases internal
// storage and is only valid until the next NoteOn/NoteOff.
func (t *Tracker) Notes() []uint8 {
	return t.notes[:t.n]
}

// Len returns the number of held notes.
func (t *Tracker) Len() int { return t.n }

// Clear releases every note.
func (t *Tracker) Clear() { t.n = 0 }

// RateFor returns the precomputed rate for note.
func (t *Tracker) RateFor(note int) float64 {
	return t.rates.RateFor(note)
}

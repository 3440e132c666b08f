// Package event turns raw MIDI into the per-frame note events consumed by the
// processor.
package event

import (
	"slices"

	"gitlab.com/gomidi/midi/v2"
)

type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	// Other is any message that is not a note on/off (CC, pitch bend, ...).
	Other
)

// Event is one MIDI message placed at a frame offset inside a block.
type Event struct {
	Frame    int
	Kind     Kind
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// FromMessage decodes msg. A note-on with velocity 0 is a note-off.
func FromMessage(frame int, msg midi.Message) Event {
	var ch, key, vel uint8
	if len(msg) == 3 && msg[0]&0xF0 == 0x90 && msg[2] == 0 {
		return Event{Frame: frame, Kind: NoteOff, Channel: msg[0] & 0x0F, Note: msg[1]}
	}
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return Event{Frame: frame, Kind: NoteOn, Channel: ch, Note: key, Velocity: vel}
	case msg.GetNoteOff(&ch, &key, &vel):
		return Event{Frame: frame, Kind: NoteOff, Channel: ch, Note: key, Velocity: vel}
	}
	return Event{Frame: frame, Kind: Other}
}

// DrainPolicy decides what happens to the rest of a frame's events after a
// non-note event.
type DrainPolicy int

const (
	// StopAtFirstNonNote discards the remainder of the frame's events once a
	// non-note event is seen.
	StopAtFirstNonNote DrainPolicy = iota
	// ProcessAll skips non-note events and keeps draining.
	ProcessAll
)

func (p DrainPolicy) String() string {
	if p == ProcessAll {
		return "process-all"
	}
	return "stop-at-first-non-note"
}

// NoteSink receives drained note events.
type NoteSink interface {
	NoteOn(note int)
	NoteOff(note int)
}

// Batch is the block's events in frame order plus a read cursor.
type Batch struct {
	events []Event
	next   int
}

// NewBatch sorts events by frame (stable, so same-frame order is kept).
func NewBatch(events ...Event) *Batch {
	b := &Batch{}
	b.Reset(events)
	return b
}

// Reset points the batch at a new block of events. events is sorted in place.
func (b *Batch) Reset(events []Event) {
	if !slices.IsSortedFunc(events, byFrame) {
		slices.SortStableFunc(events, byFrame)
	}
	b.events = events
	b.next = 0
}

// Pending returns the number of undrained events.
func (b *Batch) Pending() int {
	if b == nil {
		return 0
	}
	return len(b.events) - b.next
}

// Drain applies every event due at or before frame to sink and returns how
// many note events were applied.
func (b *Batch) Drain(frame int, policy DrainPolicy, sink NoteSink) int {
	if b == nil {
		return 0
	}
	applied := 0
	for b.next < len(b.events) && b.events[b.next].Frame <= frame {
		ev := b.events[b.next]
		b.next++
		switch ev.Kind {
		case NoteOn:
			sink.NoteOn(int(ev.Note))
			applied++
		case NoteOff:
			sink.NoteOff(int(ev.Note))
			applied++
		default:
			if policy == StopAtFirstNonNote {
				for b.next < len(b.events) && b.events[b.next].Frame <= frame {
					b.next++
				}
				return applied
			}
		}
	}
	return applied
}

func byFrame(a, b Event) int {
	return a.Frame - b.Frame
}

package event

import (
	"strconv"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

type recordingSink struct {
	ops []string
}

func (r *recordingSink) NoteOn(note int)  { r.ops = append(r.ops, "on"+strconv.Itoa(note)) }
func (r *recordingSink) NoteOff(note int) { r.ops = append(r.ops, "off"+strconv.Itoa(note)) }

func TestFromMessage(t *testing.T) {
	for _, tc := range []struct {
		name string
		msg  midi.Message
		kind Kind
		note uint8
	}{
		{"note on", midi.NoteOn(0, 60, 100), NoteOn, 60},
		{"note off", midi.NoteOff(1, 62), NoteOff, 62},
		{"zero velocity note on", midi.NoteOn(0, 64, 0), NoteOff, 64},
		{"control change", midi.ControlChange(0, 1, 127), Other, 0},
		{"pitch bend", midi.Pitchbend(0, 100), Other, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ev := FromMessage(3, tc.msg)
			if ev.Kind != tc.kind || ev.Note != tc.note || ev.Frame != 3 {
				t.Fatalf("got %+v, want kind %v note %d frame 3", ev, tc.kind, tc.note)
			}
		})
	}
}

func TestBatchDrainsOnlyDueEvents(t *testing.T) {
	b := NewBatch(
		Event{Frame: 4, Kind: NoteOn, Note: 67},
		Event{Frame: 0, Kind: NoteOn, Note: 60},
		Event{Frame: 0, Kind: NoteOn, Note: 64},
	)
	sink := &recordingSink{}
	if n := b.Drain(0, ProcessAll, sink); n != 2 {
		t.Fatalf("frame 0 applied %d events, want 2", n)
	}
	if n := b.Drain(3, ProcessAll, sink); n != 0 {
		t.Fatalf("frame 3 applied %d events, want 0", n)
	}
	b.Drain(4, ProcessAll, sink)
	want := []string{"on60", "on64", "on67"}
	if len(sink.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", sink.ops, want)
	}
	for i := range want {
		if sink.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", sink.ops, want)
		}
	}
}

func mixedBatch() *Batch {
	return NewBatch(
		Event{Frame: 0, Kind: NoteOn, Note: 60},
		Event{Frame: 0, Kind: Other},
		Event{Frame: 0, Kind: NoteOn, Note: 64},
		Event{Frame: 1, Kind: NoteOn, Note: 67},
	)
}

func TestDrainStopAtFirstNonNoteDiscardsRestOfFrame(t *testing.T) {
	b := mixedBatch()
	sink := &recordingSink{}
	b.Drain(0, StopAtFirstNonNote, sink)
	if len(sink.ops) != 1 || sink.ops[0] != "on60" {
		t.Fatalf("frame 0 ops = %v, want [on60]", sink.ops)
	}
	b.Drain(1, StopAtFirstNonNote, sink)
	if len(sink.ops) != 2 || sink.ops[1] != "on67" {
		t.Fatalf("later frames should still drain, ops = %v", sink.ops)
	}
	if b.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", b.Pending())
	}
}

func TestDrainProcessAllSkipsNonNote(t *testing.T) {
	b := mixedBatch()
	sink := &recordingSink{}
	b.Drain(0, ProcessAll, sink)
	if len(sink.ops) != 2 || sink.ops[0] != "on60" || sink.ops[1] != "on64" {
		t.Fatalf("frame 0 ops = %v, want [on60 on64]", sink.ops)
	}
}

func TestNilBatchIsEmpty(t *testing.T) {
	var b *Batch
	if b.Drain(0, ProcessAll, &recordingSink{}) != 0 || b.Pending() != 0 {
		t.Fatal("nil batch should drain nothing")
	}
}

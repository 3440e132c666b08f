// Package gate is the record/resample state machine that decides whether
// grains may be emitted.
package gate

type State int

const (
	Playing State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "playing"
}

// Recorder is the part of the granulation engine the gate drives.
type Recorder interface {
	ResetRecord()
}

// Gate tracks the capture state. Active stays false until the first capture
// completes, unless the gate starts in Playing.
type Gate struct {
	state        State
	active       bool
	lastResample bool
	captures     int
}

// New returns a gate that is either already capturing (recordOnStart) or
// playing with synthesis enabled.
func New(recordOnStart bool) *Gate {
	g := &Gate{}
	g.Reset(recordOnStart)
	return g
}

// Reset restores the initial state.
func (g *Gate) Reset(recordOnStart bool) {
	g.lastResample = false
	g.captures = 0
	if recordOnStart {
		g.state = Recording
		g.active = false
		return
	}
	g.state = Playing
	g.active = true
}

func (g *Gate) State() State { return g.state }

// Active reports whether synthesis has been enabled by a completed capture.
func (g *Gate) Active() bool { return g.active }

// Captures counts completed Recording -> Playing transitions.
func (g *Gate) Captures() int { return g.captures }

// Resample feeds the host resample switch. A rising edge re-arms the
// recorder and enters Recording; it returns true on that edge.
func (g *Gate) Resample(asserted bool, rec Recorder) bool {
	rising := asserted && !g.lastResample
	g.lastResample = asserted
	if !rising {
		return false
	}
	rec.ResetRecord()
	g.state = Recording
	return true
}

// Observe feeds the engine's record result for this frame and reports
// whether grains may be emitted.
func (g *Gate) Observe(captureComplete bool) bool {
	if !captureComplete {
		return false
	}
	if g.state == Recording {
		g.state = Playing
		g.active = true
		g.captures++
	}
	return g.active
}

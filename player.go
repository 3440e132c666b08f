package havregryn

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"

	intaudio "github.com/cbegin/havregryn-go/internal/audio"
	"github.com/cbegin/havregryn-go/internal/event"
)

// DefaultQueueSize bounds the MIDI messages buffered between blocks.
const DefaultQueueSize = 256

// InputFunc fills dst with the next mono input frames. It runs on the audio
// thread.
type InputFunc func(dst []float32)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	synthOpts []SynthOption
	input     InputFunc
	latency   time.Duration
	queue     int
	logger    *slog.Logger
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		queue:  DefaultQueueSize,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSynthOptions configures the underlying Synth.
func WithSynthOptions(opts ...SynthOption) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.synthOpts = append(cfg.synthOpts, opts...)
	}
}

// WithInput installs the live input feed. Without one the synth records
// silence.
func WithInput(fn InputFunc) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.input = fn
	}
}

// WithLatency sets the device buffer length.
func WithLatency(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.latency = d
	}
}

func WithQueueSize(n int) PlayerOption {
	return func(cfg *playerConfig) {
		if n > 0 {
			cfg.queue = n
		}
	}
}

// WithLogger receives stream lifecycle messages. Nothing is logged from the
// audio thread.
func WithLogger(logger *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Player streams a Synth to the default audio device. NoteOn, NoteOff, Send
// and Resample may be called from any goroutine.
type Player struct {
	mu     sync.Mutex
	synth  *Synth
	audio  *intaudio.Player
	src    *liveSource
	cfg    playerConfig
	logger *slog.Logger
}

// liveSource is the audio-thread side of a Player.
type liveSource struct {
	synth   *Synth
	input   InputFunc
	midi    chan midi.Message
	pending []Event
	in      []float32
	pulse   atomic.Bool
	load    atomic.Pointer[[]float32]
	dropped atomic.Int64
}

func (s *liveSource) Render(dst []float32) {
	frames := len(dst) / intaudio.Channels
	s.pending = s.pending[:0]
drain:
	for len(s.pending) < cap(s.pending) {
		select {
		case msg := <-s.midi:
			s.pending = append(s.pending, event.FromMessage(0, msg))
		default:
			break drain
		}
	}

	var in []float32
	if s.input != nil {
		if cap(s.in) < frames {
			s.in = make([]float32, frames)
		}
		in = s.in[:frames]
		clear(in)
		s.input(in)
	}

	if samples := s.load.Swap(nil); samples != nil {
		s.synth.Load(*samples)
	}

	resample := s.synth.controls.Resample
	pulsed := s.pulse.Swap(false)
	held := false
	if pulsed {
		held = resample.Value()
		resample.Set(true)
	}
	s.synth.Process(in, dst, s.pending)
	if pulsed {
		resample.Set(held)
	}
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	synth, err := NewSynth(sampleRate, cfg.synthOpts...)
	if err != nil {
		return nil, err
	}
	return &Player{
		synth: synth,
		src: &liveSource{
			synth:   synth,
			input:   cfg.input,
			midi:    make(chan midi.Message, cfg.queue),
			pending: make([]Event, 0, cfg.queue),
		},
		cfg:    cfg,
		logger: cfg.logger,
	}, nil
}

// Synth returns the player's synth for parameter access. Process, Load and
// Reset must not be called on it while the player runs; use Player.Load.
func (p *Player) Synth() *Synth { return p.synth }

// Controls is shorthand for Synth().Controls().
func (p *Player) Controls() *Controls { return p.synth.controls }

// Start opens the audio stream and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
		return nil
	}
	backend, err := intaudio.NewPlayer(p.synth.sampleRate, p.src, p.cfg.latency)
	if err != nil {
		return errors.Wrap(err, "open audio stream")
	}
	p.audio = backend
	p.audio.Play()
	p.logger.Info("stream started", "sample_rate", p.synth.sampleRate, "latency", p.cfg.latency)
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

// Stop closes the stream. The player can be started again.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	frames := p.audio.RenderedFrames()
	p.audio = nil
	p.logger.Info("stream stopped", "frames", frames, "dropped_midi", p.src.dropped.Load())
	return err
}

// Send queues a raw MIDI message for the next block. It never blocks and
// returns false when the queue is full.
func (p *Player) Send(msg midi.Message) bool {
	select {
	case p.src.midi <- msg:
		return true
	default:
		p.src.dropped.Add(1)
		return false
	}
}

func (p *Player) NoteOn(note int) bool {
	return p.Send(midi.NoteOn(0, uint8(note), 100))
}

func (p *Player) NoteOff(note int) bool {
	return p.Send(midi.NoteOff(0, uint8(note)))
}

// Resample re-arms the capture buffer on the next block.
func (p *Player) Resample() {
	p.src.pulse.Store(true)
}

// Load replaces the capture buffer with samples (mono) at the start of the
// next block. samples must not be modified afterwards.
func (p *Player) Load(samples []float32) {
	p.src.load.Store(&samples)
}

// Dropped returns the number of MIDI messages lost to a full queue.
func (p *Player) Dropped() int64 { return p.src.dropped.Load() }

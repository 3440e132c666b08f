package havregryn

import "github.com/pkg/errors"

// DefaultBlockSize is the block length Render processes at a time.
const DefaultBlockSize = 512

// RenderConfig describes an offline render of one input through the sampler.
type RenderConfig struct {
	// Seconds of output. Zero renders the input twice over when recording
	// (one pass to capture, one to play) and once when preloading.
	Seconds float64
	// Notes are held from the first frame to the end.
	Notes []int
	// Preload loads the input straight into the capture buffer instead of
	// recording it through the input, so grains start at frame 0.
	Preload   bool
	BlockSize int
}

// Render runs input through a fresh Synth and returns interleaved stereo at
// the input's sample rate. The capture buffer defaults to the input length;
// pass WithCaptureSeconds to override. With WithSeed the output is
// repeatable.
func Render(input Audio, cfg RenderConfig, opts ...SynthOption) (Audio, error) {
	if input.SampleRate <= 0 {
		return Audio{}, errors.New("input sample rate must be positive")
	}
	mono := input.Mono()
	all := make([]SynthOption, 0, len(opts)+2)
	if len(mono) > 0 {
		all = append(all, WithCaptureSamples(len(mono)))
	}
	if cfg.Preload {
		all = append(all, WithRecordOnStart(false))
	}
	all = append(all, opts...)
	synth, err := NewSynth(input.SampleRate, all...)
	if err != nil {
		return Audio{}, err
	}
	if cfg.Preload {
		synth.Load(mono)
	}

	frames := int(cfg.Seconds * float64(input.SampleRate))
	if cfg.Seconds <= 0 {
		frames = len(mono)
		if !cfg.Preload {
			frames *= 2
		}
	}
	block := cfg.BlockSize
	if block <= 0 {
		block = DefaultBlockSize
	}

	out := make([]float32, frames*2)
	events := make([]Event, 0, len(cfg.Notes))
	for _, n := range cfg.Notes {
		events = append(events, NoteOnAt(0, n))
	}
	for start := 0; start < frames; start += block {
		end := min(start+block, frames)
		var in []float32
		if !cfg.Preload && start < len(mono) {
			in = mono[start:min(end, len(mono))]
		}
		synth.Process(in, out[start*2:end*2], events)
		events = events[:0]
	}
	return Audio{Samples: out, Channels: 2, SampleRate: input.SampleRate}, nil
}

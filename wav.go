package havregryn

import (
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// DefaultBitDepth is the PCM depth WriteWAV uses when none is given.
const DefaultBitDepth = 24

// Audio is interleaved float samples in [-1, 1].
type Audio struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames.
func (a Audio) Frames() int {
	if a.Channels <= 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

// Mono averages all channels into one.
func (a Audio) Mono() []float32 {
	if a.Channels <= 1 {
		return a.Samples
	}
	out := make([]float32, a.Frames())
	scale := 1 / float32(a.Channels)
	for i := range out {
		var sum float32
		for _, s := range a.Samples[i*a.Channels : (i+1)*a.Channels] {
			sum += s
		}
		out[i] = sum * scale
	}
	return out
}

// ReadWAV decodes a PCM WAV file.
func ReadWAV(path string) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, errors.Wrap(err, "open wav")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Audio{}, errors.Errorf("%s: not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Audio{}, errors.Wrapf(err, "decode %s", path)
	}
	depth := int(dec.BitDepth)
	if depth <= 0 || depth > 32 {
		return Audio{}, errors.Errorf("%s: unsupported bit depth %d", path, depth)
	}
	scale := 1 / float32(int64(1)<<(depth-1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) * scale
	}
	return Audio{
		Samples:    samples,
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
	}, nil
}

// WriteWAV encodes a as integer PCM at bitDepth (16, 24 or 32; 0 picks
// DefaultBitDepth). Samples are clipped to [-1, 1].
func WriteWAV(path string, a Audio, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return errors.Errorf("unsupported bit depth %d", bitDepth)
	}
	if a.Channels <= 0 || a.SampleRate <= 0 {
		return errors.Errorf("invalid format: %d channels at %d Hz", a.Channels, a.SampleRate)
	}

	peak := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		data[i] = int(math.Round(v * peak))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create wav")
	}
	enc := wav.NewEncoder(f, a.SampleRate, bitDepth, a.Channels, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return errors.Wrapf(err, "finalize %s", path)
	}
	return errors.Wrap(f.Close(), "close wav")
}

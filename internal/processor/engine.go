package processor

// Engine is the granulation engine the processor drives. Implementations own
// the capture buffer, grain scheduling, envelopes and interpolation.
type Engine interface {
	// Record captures sample while the buffer is filling and returns
	// complete=false. Once the buffer is full it returns the sample unchanged
	// with complete=true.
	Record(sample float32) (out float32, complete bool)
	// ResetRecord re-arms the capture from the start of the buffer.
	ResetRecord()
	// TriggerNew schedules one grain.
	TriggerNew(position, duration, pan, rate, jitter float64)
	// Play renders the next stereo output frame.
	Play() [2]float32
	SetSampleRate(sampleRate float64)
	SetBufferSize(samples int)
}

package mensura

type (
	// AudioSink plays interleaved float32 sample buffers.
	AudioSink interface {
		Play(buffer []float32) error
	}

	// BufferRenderer renders an ensemble offline into a mono buffer.
	BufferRenderer interface {
		Render(e *Ensemble, sampleRate int) []float32
	}
)

// Package oto plays rendered ensembles through the system audio device.
package oto

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/mensura"
)

// Context wraps the oto context and implements mensura.AudioSink. Only one
// context can exist per process.
type Context struct {
	ctx    *oto.Context
	format mensura.AudioFormat
}

var _ mensura.AudioSink = (*Context)(nil)

// NewContext opens the audio device with the given sample rate and channel
// count and waits until it is ready. Samples are sent as 16-bit integers.
func NewContext(sampleRate, channels int) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, format: mensura.AudioFormat{SampleRate: sampleRate, Channels: channels, PCM16: true}}, nil
}

// Play plays an interleaved buffer and blocks until playback is finished.
func (c *Context) Play(buffer []float32) error {
	b, err := mensura.Raw(buffer, c.format.PCM16)
	if err != nil {
		return fmt.Errorf("cannot convert buffer: %w", err)
	}
	p := c.ctx.NewPlayer(bytes.NewReader(b))
	defer p.Close()
	p.Play()
	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("cannot play buffer: %w", err)
	}
	return nil
}

// PlayEnsemble renders the ensemble and plays it. Mono renders are duplicated
// to every channel of the context.
func (c *Context) PlayEnsemble(r mensura.BufferRenderer, e *mensura.Ensemble) error {
	mono := r.Render(e, c.format.SampleRate)
	return c.Play(Interleave(mono, c.format.Channels))
}

// Interleave copies a mono buffer to n channels.
func Interleave(mono []float32, n int) []float32 {
	if n <= 1 {
		return mono
	}
	ret := make([]float32, 0, len(mono)*n)
	for _, v := range mono {
		for i := 0; i < n; i++ {
			ret = append(ret, v)
		}
	}
	return ret
}

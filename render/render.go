// Package render is the reference audio sink: it renders ensemble events
// offline with simple additive tones and writes .wav files.
package render

import (
	"fmt"
	"math"
	"os"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/mensura"
)

const (
	peakLevel       = 0.9
	percussionDecay = 30.0 // 1/s
	attack          = 0.005
	tailS           = 0.5
)

// Renderer renders pitched events as sines with a few harmonics and
// percussive events as quickly decaying sines. An event sounds until the next
// event of the same instrument, at most one measure.
type Renderer struct {
	Format mensura.AudioFormat
}

// New returns a renderer producing 16-bit mono files.
func New() *Renderer {
	return &Renderer{Format: mensura.AudioFormat{SampleRate: mensura.DefaultAudioFormat.SampleRate, Channels: 1, PCM16: true}}
}

// Render returns the mono sample buffer of the ensemble, normalized so that
// its peak is at 0.9.
func (r *Renderer) Render(e *mensura.Ensemble, sampleRate int) []float32 {
	length := e.Duration() + e.MeasureDuration() + tailS
	buf := make([]float32, int(math.Ceil(length*float64(sampleRate))))
	maxLen := e.MeasureDuration()
	if maxLen <= 0 {
		maxLen = 1
	}
	for _, slug := range sortedSlugs(e) {
		events := e.Score[slug]
		for i, ev := range events {
			dur := maxLen
			if i+1 < len(events) {
				dur = min(dur, events[i+1].TimeS-ev.TimeS)
			}
			if dur <= 0 {
				continue
			}
			addTone(buf, sampleRate, ev, dur)
		}
	}
	peak := float32(0)
	for _, x := range buf {
		peak = max(peak, float32(math.Abs(float64(x))))
	}
	if peak > 0 {
		vek32.MulNumber_Inplace(buf, peakLevel/peak)
	}
	return buf
}

func addTone(buf []float32, sampleRate int, ev mensura.Event, dur float64) {
	start := int(ev.TimeS * float64(sampleRate))
	n := int(dur * float64(sampleRate))
	w := 2 * math.Pi * ev.FrequencyHz / float64(sampleRate)
	for j := 0; j < n && start+j < len(buf); j++ {
		t := float64(j) / float64(sampleRate)
		env := min(1, t/attack)
		var s float64
		if ev.Kind == mensura.Percussive {
			env *= math.Exp(-percussionDecay * t)
			s = math.Sin(w * float64(j))
		} else {
			env *= min(1, (dur-t)/attack)
			s = math.Sin(w*float64(j)) + 0.3*math.Sin(2*w*float64(j)) + 0.1*math.Sin(3*w*float64(j))
		}
		buf[start+j] += float32(ev.Intensity * env * s)
	}
}

// RenderEnsemble renders the ensemble and writes it as a .wav file to path.
func (r *Renderer) RenderEnsemble(e *mensura.Ensemble, sampleRate int, path string) (string, error) {
	f := r.Format
	f.SampleRate = sampleRate
	b, err := mensura.Wav(r.Render(e, sampleRate), f)
	if err != nil {
		return "", fmt.Errorf("could not encode audio: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", fmt.Errorf("could not write file %v: %w", path, err)
	}
	return path, nil
}

func sortedSlugs(e *mensura.Ensemble) []string {
	m := make(map[mensura.InstrumentType]struct{}, len(e.Score))
	for k := range e.Score {
		m[mensura.InstrumentType(k)] = struct{}{}
	}
	ret := make([]string, 0, len(m))
	for _, k := range mensura.SortedInstruments(m) {
		ret = append(ret, string(k))
	}
	return ret
}

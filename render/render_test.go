package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/render"
)

func ensemble() *mensura.Ensemble {
	return &mensura.Ensemble{TempoBPM: 120, Measures: 1, BeatsPerMeasure: 4, Score: map[string][]mensura.Event{
		"mechanical_organ":  {{TimeS: 0, FrequencyHz: 440, Intensity: 0.8, Kind: mensura.Pitched}, {TimeS: 1, FrequencyHz: 330, Intensity: 0.8, Kind: mensura.Pitched}},
		"programmable_drum": {{TimeS: 0.5, FrequencyHz: 200, Intensity: 1, Kind: mensura.Percussive}},
	}}
}

func TestRenderNormalizes(t *testing.T) {
	r := render.New()
	buf := r.Render(ensemble(), 8000)
	if len(buf) < 8000*3 {
		t.Fatalf("got %v samples, expected at least %v", len(buf), 8000*3)
	}
	peak := float32(0)
	for _, x := range buf {
		if x < 0 {
			x = -x
		}
		peak = max(peak, x)
	}
	if peak < 0.89 || peak > 0.91 {
		t.Fatalf("got peak %v, expected 0.9", peak)
	}
}

func TestRenderEnsemble(t *testing.T) {
	r := render.New()
	path := filepath.Join(t.TempDir(), "out.wav")
	got, err := r.RenderEnsemble(ensemble(), 8000, path)
	if err != nil {
		t.Fatalf("RenderEnsemble failed: %v", err)
	}
	if got != path {
		t.Fatalf("got path %v, expected %v", got, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		t.Fatal("output is not a wav file")
	}
}

func TestRenderEmptyEnsemble(t *testing.T) {
	r := render.New()
	buf := r.Render(&mensura.Ensemble{TempoBPM: 120, BeatsPerMeasure: 4, Score: map[string][]mensura.Event{}}, 8000)
	for _, x := range buf {
		if x != 0 {
			t.Fatal("empty ensemble should render silence")
		}
	}
}

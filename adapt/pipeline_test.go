package adapt_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/adapt"
	"github.com/vsariola/mensura/constraint"
	"github.com/vsariola/mensura/metrics"
	"github.com/vsariola/mensura/simulate"
)

func quietPipeline(opts ...adapt.Option) *adapt.Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return adapt.New(append([]adapt.Option{adapt.WithLogger(logger)}, opts...)...)
}

func organScore(pitches ...float64) *mensura.Score {
	v := mensura.Voice{Name: "top", Instrument: mensura.MechanicalOrgan, RangeLow: 65.41, RangeHigh: 1046.5}
	for i, p := range pitches {
		v.Notes = append(v.Notes, mensura.Note{Pitch: p, Duration: 0.5, Velocity: 0.7, StartTime: float64(i)})
	}
	return &mensura.Score{Title: "organ", Mode: mensura.Dorian, TempoBPM: 100, Voices: []mensura.Voice{v}}
}

func drumScore(n int) *mensura.Score {
	v := mensura.Voice{Name: "drum", Instrument: mensura.ProgrammableDrum, RangeLow: 80, RangeHigh: 400}
	for i := 0; i < n; i++ {
		v.Notes = append(v.Notes, mensura.Note{Pitch: 200, Duration: 0.06, Velocity: 0.7, StartTime: float64(i) * 0.1})
	}
	return &mensura.Score{Title: "drum", TempoBPM: 100, Voices: []mensura.Voice{v}}
}

func TestAdaptOutOfRangeNoteConverges(t *testing.T) {
	p := quietPipeline()
	score := organScore(293.66, 2000, 440)
	res := p.Adapt(score, nil)

	assert.Equal(t, adapt.RevalidatedOK, res.State)
	assert.True(t, res.Success)
	assert.Empty(t, res.Violations)
	require.Len(t, res.InitialViolations, 1)
	assert.Equal(t, constraint.PitchRange, res.InitialViolations[0].Category)
	require.NotEmpty(t, res.Revisions)
	pitch := res.Revisions[0]
	assert.Equal(t, constraint.PitchRange, pitch.Category)
	require.Len(t, pitch.Changes, 1)
	assert.Equal(t, 2000.0, pitch.Changes[0].Before)
	assert.Equal(t, 1000.0, pitch.Changes[0].After)
	assert.Equal(t, 1000.0, res.Adapted.Voices[0].Notes[1].Pitch)
	assert.Equal(t, 2000.0, score.Voices[0].Notes[1].Pitch, "original must not change")
	for _, rev := range res.Revisions {
		assert.Equal(t, constraint.PitchRange, rev.Category, "only repairs of reported categories run")
	}
	assert.NotEmpty(t, res.ID)
	assert.NotEmpty(t, res.Log)
}

func TestAdaptRapidPassage(t *testing.T) {
	p := quietPipeline()
	res := p.Adapt(drumScore(20), nil)

	require.True(t, len(res.InitialViolations) > 0)
	assert.Equal(t, constraint.RapidPassage, res.InitialViolations[0].Category)
	assert.True(t, res.Success, "remaining: %v", constraint.Strings(res.Violations))

	notes := res.Adapted.Voices[0].Notes
	rests := 0
	for i, n := range notes {
		if n.IsRest {
			rests++
			assert.InDelta(t, 0.15, n.Duration, 1e-12)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, n.StartTime, notes[i-1].StartTime)
		}
	}
	assert.Equal(t, 2, rests)
	assert.Len(t, notes, 22)
}

func TestAdaptValidScore(t *testing.T) {
	p := quietPipeline()
	score := organScore(293.66, 329.63)
	res := p.Adapt(score, nil)
	assert.Equal(t, adapt.ValidatedOK, res.State)
	assert.True(t, res.Success)
	assert.Empty(t, res.Revisions)
	res.Adapted.Voices[0].Notes[0].Pitch = 1
	assert.Equal(t, 293.66, score.Voices[0].Notes[0].Pitch)
}

func TestAdaptSubstitution(t *testing.T) {
	p := quietPipeline()
	score := drumScore(1)
	score.Voices[0].Notes[0].Pitch = 880
	res := p.Adapt(score, map[string]mensura.InstrumentType{"drum": mensura.MechanicalOrgan})
	assert.Equal(t, map[string]string{"drum": "mechanical_organ"}, res.Substitutions)
	assert.Equal(t, mensura.MechanicalOrgan, res.Adapted.Voices[0].Instrument)
	assert.Equal(t, mensura.ProgrammableDrum, score.Voices[0].Instrument)
	assert.True(t, res.Success)
}

func TestAdaptPolyphonyIsReported(t *testing.T) {
	p := quietPipeline()
	score := &mensura.Score{TempoBPM: 100, Voices: []mensura.Voice{
		{Name: "a", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 440, Duration: 1, Velocity: 0.5}}},
		{Name: "b", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 330, Duration: 1, Velocity: 0.5}}},
	}}
	res := p.Adapt(score, nil)
	assert.Equal(t, adapt.RevalidatedWithViolations, res.State)
	assert.False(t, res.Success)
	var poly *adapt.Revision
	for i := range res.Revisions {
		if res.Revisions[i].Category == constraint.Polyphony {
			poly = &res.Revisions[i]
		}
	}
	require.NotNil(t, poly)
	assert.Empty(t, poly.Changes)
	assert.NotEmpty(t, poly.Note)
	assert.Contains(t, strings.Join(res.Suggestions, "\n"), "simultaneous")
}

func TestAdaptRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	p := quietPipeline(adapt.WithMetrics(m))
	p.Adapt(organScore(293.66, 2000), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ViolationsTotal.WithLabelValues("pitch_range", "initial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChangesTotal.WithLabelValues("pitch_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Feasibility.WithLabelValues("mechanical_organ")))
}

func TestConvertToEnsemble(t *testing.T) {
	score := &mensura.Score{TempoBPM: 120, Voices: []mensura.Voice{
		{Name: "drum", Instrument: mensura.ProgrammableDrum, Notes: []mensura.Note{
			{Pitch: 200, Duration: 1, Velocity: 0.5},
			{Duration: 0.5, StartTime: 0.5, IsRest: true},
			{Pitch: 300, Duration: 1, Velocity: 0.9, StartTime: 1},
		}},
	}}
	e := adapt.ConvertToEnsemble(score, 3, 4)
	events := e.Score["programmable_drum"]
	require.Len(t, events, 6)
	for i, ev := range events {
		assert.InDelta(t, float64(i), ev.TimeS, 1e-12)
		assert.Equal(t, mensura.Percussive, ev.Kind)
	}
	assert.Equal(t, 300.0, events[1].FrequencyHz)
	assert.Equal(t, 0.9, events[1].Intensity)
	assert.Equal(t, 6, e.NumEvents())
}

type fakeRenderer struct{ err error }

func (f fakeRenderer) RenderEnsemble(e *mensura.Ensemble, sampleRate int, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return path, os.WriteFile(path, []byte("RIFF"), 0644)
}

func TestGenerateEnsembleDemo(t *testing.T) {
	p := quietPipeline()
	dir := t.TempDir()
	res, err := p.GenerateEnsembleDemo(adapt.DemoRequest{Score: organScore(293.66, 440), Name: "demo", Measures: 2, OutputDir: dir, Renderer: fakeRenderer{}})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.FileExists(t, res.EnsemblePath)
	assert.FileExists(t, res.AudioPath)

	res, err = p.GenerateEnsembleDemo(adapt.DemoRequest{Score: organScore(293.66), Name: "broken", Measures: 1, OutputDir: dir, Renderer: fakeRenderer{err: errors.New("no sound card")}})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no sound card")
	assert.Empty(t, res.AudioPath)
	assert.FileExists(t, res.EnsemblePath)
}

func TestGenerateEnsembleDemoDefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	p := quietPipeline()
	res, err := p.GenerateEnsembleDemo(adapt.DemoRequest{Score: organScore(293.66), Name: "here", Measures: 1})
	require.NoError(t, err)
	assert.Equal(t, "here.json", res.EnsemblePath)
	assert.FileExists(t, "here.json")
}

func TestValidateWithSimulation(t *testing.T) {
	sims := simulate.Simulators(simulate.DefaultParams())

	report, err := adapt.ValidateWithSimulation(organScore(293.66, 440), sims, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"top"}, report.Checked)

	_, err = adapt.ValidateWithSimulation(organScore(293.66, 2000), sims, 1)
	var serr *adapt.SimulationError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "top", serr.Voice)

	report, err = adapt.ValidateWithSimulation(drumScore(2), sims, 1)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "shortest note")

	report, err = adapt.ValidateWithSimulation(drumScore(1), map[mensura.InstrumentType]mensura.InstrumentSimulator{}, 1)
	require.NoError(t, err)
	assert.Empty(t, report.Checked)
	assert.Len(t, report.Warnings, 1)
}

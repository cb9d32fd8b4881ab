package report_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/adapt"
	"github.com/vsariola/mensura/analyzer"
	"github.com/vsariola/mensura/patterns"
	"github.com/vsariola/mensura/report"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mechanical Organ", report.DisplayName(mensura.MechanicalOrgan))
	assert.Equal(t, "Basse Danse", report.DisplayName(mensura.BasseDanse))
}

func TestWriteAnalysis(t *testing.T) {
	r, err := report.New()
	require.NoError(t, err)
	score := &mensura.Score{Title: "Study", TempoBPM: 80, Voices: []mensura.Voice{{Name: "top", Instrument: mensura.MechanicalOrgan, Notes: []mensura.Note{
		{Pitch: 293.66, Duration: 1, Velocity: 0.5},
		{Pitch: 329.63, Duration: 1, Velocity: 0.5, StartTime: 1},
		{Pitch: 293.66, Duration: 2, Velocity: 0.5, StartTime: 2},
	}}}}
	a := analyzer.New(patterns.New()).Analyze(score)
	var sb strings.Builder
	require.NoError(t, r.WriteAnalysis(&sb, score, a))
	out := sb.String()
	assert.Contains(t, out, "# Analysis of Study")
	assert.Contains(t, out, "| Dorian |")
	assert.Contains(t, out, "- Notes: 3")
}

func TestWriteAdaptation(t *testing.T) {
	r, err := report.New()
	require.NoError(t, err)
	p := adapt.New(adapt.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	score := &mensura.Score{Title: "Clash", TempoBPM: 100, Voices: []mensura.Voice{
		{Name: "a", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 440, Duration: 1, Velocity: 0.5}}},
		{Name: "b", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 330, Duration: 1, Velocity: 0.5}}},
	}}
	res := p.Adapt(score, nil)
	var sb strings.Builder
	require.NoError(t, r.WriteAdaptation(&sb, res))
	out := sb.String()
	assert.Contains(t, out, "# Adaptation of Clash")
	assert.Contains(t, out, "- Success: false")
	assert.Contains(t, out, "| Mechanical Trumpeter |")
	assert.Contains(t, out, "## Suggestions")
	assert.Contains(t, out, "## Remaining violations (1)")
}

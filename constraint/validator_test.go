package constraint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/constraint"
)

func drumVoice(notes ...mensura.Note) mensura.Voice {
	return mensura.Voice{Name: "drum", Instrument: mensura.ProgrammableDrum, RangeLow: 80, RangeHigh: 400, Notes: notes}
}

func TestOutOfRangeDrumNote(t *testing.T) {
	v := constraint.New()
	voice := drumVoice(mensura.Note{Pitch: 2000, Duration: 0.01, Velocity: 0.5})
	c, ok := v.Constraints(mensura.ProgrammableDrum)
	require.True(t, ok)

	r := v.ValidateVoice(&voice, c)
	cats := map[constraint.Category]int{}
	for _, viol := range r.Violations {
		cats[viol.Category]++
	}
	assert.Equal(t, 1, cats[constraint.PitchRange])
	assert.Equal(t, 1, cats[constraint.DurationRange])
	assert.InDelta(t, 0.7, r.Feasibility, 1e-9)

	report := v.ValidateScore(&mensura.Score{TempoBPM: 100, Voices: []mensura.Voice{voice}}, nil)
	assert.False(t, report.Success())
	suggestions := strings.Join(v.SuggestAdaptations(report), "\n")
	assert.Contains(t, suggestions, "transpose")
	assert.Contains(t, suggestions, "duration")
}

func TestPitchRangeIsInclusive(t *testing.T) {
	v := constraint.New()
	c, _ := v.Constraints(mensura.ProgrammableDrum)
	voice := drumVoice(
		mensura.Note{Pitch: 80, Duration: 0.5, Velocity: 0.5},
		mensura.Note{Pitch: 400, Duration: 0.5, Velocity: 0.5, StartTime: 1},
	)
	r := v.ValidateVoice(&voice, c)
	assert.Empty(t, r.Violations)
	assert.Equal(t, 1.0, r.Feasibility)
}

func rapidDrum(n int) mensura.Voice {
	notes := make([]mensura.Note, n)
	for i := range notes {
		notes[i] = mensura.Note{Pitch: 200, Duration: 0.06, Velocity: 0.7, StartTime: float64(i) * 0.1}
	}
	return drumVoice(notes...)
}

func TestRapidPassage(t *testing.T) {
	v := constraint.New()
	c, _ := v.Constraints(mensura.ProgrammableDrum)
	voice := rapidDrum(20)
	r := v.ValidateVoice(&voice, c)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, constraint.RapidPassage, r.Violations[0].Category)
	assert.Equal(t, 0, r.Violations[0].Note)
	assert.InDelta(t, 0.7, r.Feasibility, 1e-9)

	short := rapidDrum(8)
	assert.Empty(t, v.ValidateVoice(&short, c).Violations)
}

func TestRapidRuns(t *testing.T) {
	voice := rapidDrum(5)
	voice.Notes = append(voice.Notes, mensura.Note{Pitch: 200, Duration: 0.5, Velocity: 0.5, StartTime: 2})
	runs := constraint.RapidRuns(voice.Sounding(), 0.15)
	require.Len(t, runs, 1)
	assert.Equal(t, constraint.Run{Start: 0, Length: 5}, runs[0])
}

func TestLegatoOnNonLegatoInstrument(t *testing.T) {
	v := constraint.New()
	c, _ := v.Constraints(mensura.ProgrammableDrum)
	voice := drumVoice(
		mensura.Note{Pitch: 200, Duration: 0.5, Velocity: 0.5},
		mensura.Note{Pitch: 200, Duration: 0.5, Velocity: 0.5, StartTime: 0.5},
	)
	r := v.ValidateVoice(&voice, c)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, constraint.Legato, r.Violations[0].Category)
	assert.Equal(t, 1, r.Violations[0].Note)
}

func TestPolyphonyAcrossVoices(t *testing.T) {
	v := constraint.New()
	score := &mensura.Score{TempoBPM: 100, Voices: []mensura.Voice{
		{Name: "a", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 440, Duration: 1, Velocity: 0.5}}},
		{Name: "b", Instrument: mensura.MechanicalTrumpeter, Notes: []mensura.Note{{Pitch: 330, Duration: 1, Velocity: 0.5, StartTime: 0.5}}},
	}}
	r := v.ValidateScore(score, nil)
	require.Equal(t, 1, r.Count(constraint.Polyphony))
	for _, viol := range r.Violations {
		if viol.Category == constraint.Polyphony {
			assert.Equal(t, 0.5, viol.Time)
			assert.Equal(t, mensura.MechanicalTrumpeter, viol.Instrument)
		}
	}
	assert.False(t, r.Success())
}

func TestAssignmentsOverrideInstrument(t *testing.T) {
	v := constraint.New()
	score := &mensura.Score{TempoBPM: 100, Voices: []mensura.Voice{
		{Name: "top", Instrument: mensura.ProgrammableDrum, Notes: []mensura.Note{{Pitch: 880, Duration: 1, Velocity: 0.5}}},
	}}
	assert.True(t, v.ValidateScore(score, nil).Has(constraint.PitchRange))
	r := v.ValidateScore(score, map[string]mensura.InstrumentType{"top": mensura.MechanicalOrgan})
	assert.True(t, r.Success(), "violations: %v", constraint.Strings(r.Violations))
	assert.Equal(t, 1.0, r.Feasibility[mensura.MechanicalOrgan])
}

func TestTempoViolation(t *testing.T) {
	v := constraint.New()
	score := &mensura.Score{TempoBPM: 200, Voices: []mensura.Voice{
		{Name: "top", Instrument: mensura.MechanicalOrgan, Notes: []mensura.Note{{Pitch: 440, Duration: 1, Velocity: 0.5}}},
	}}
	r := v.ValidateScore(score, nil)
	assert.Equal(t, 1, r.Count(constraint.TempoRange))
	assert.Contains(t, strings.Join(v.SuggestAdaptations(r), "\n"), "tempo")
}

func TestUnknownInstrument(t *testing.T) {
	v := constraint.New()
	score := &mensura.Score{TempoBPM: 100, Voices: []mensura.Voice{{Name: "x", Instrument: "hurdy_gurdy"}}}
	r := v.ValidateScore(score, nil)
	assert.True(t, r.Has(constraint.UnknownInstrument))
	assert.Equal(t, 0.0, r.Feasibility["hurdy_gurdy"])
	assert.Contains(t, strings.Join(v.SuggestAdaptations(r), "\n"), "use a different instrument")
}

func TestLoadYAMLPartialOverride(t *testing.T) {
	v := constraint.New()
	err := v.LoadYAML([]byte("programmable_drum:\n  pitch_high: 800\n"))
	require.NoError(t, err)
	c, _ := v.Constraints(mensura.ProgrammableDrum)
	assert.Equal(t, 800.0, c.PitchHigh)
	assert.Equal(t, 80.0, c.PitchLow)
	assert.Equal(t, 8, c.MaxRapidRun)
}

func TestSetConstraintsRejectsInconsistentRecord(t *testing.T) {
	v := constraint.New()
	c, _ := v.Constraints(mensura.MechanicalOrgan)
	c.PitchHigh = c.PitchLow / 2
	assert.Error(t, v.SetConstraints(mensura.MechanicalOrgan, c))
	assert.Error(t, v.LoadYAML([]byte("mechanical_lute:\n  max_polyphony: 0\n")))
	got, _ := v.Constraints(mensura.MechanicalOrgan)
	assert.Equal(t, mensura.DefaultConstraints()[mensura.MechanicalOrgan], got)
}

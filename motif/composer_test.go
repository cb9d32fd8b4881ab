package motif_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/motif"
	"github.com/vsariola/mensura/patterns"
)

func request(form mensura.Form, instr mensura.InstrumentType, seed int64) motif.Request {
	as, _ := mensura.DefaultAssignments(3, instr)
	return motif.Request{Title: "t", Form: form, Mode: mensura.Dorian, Assignments: as, Measures: 8, Seed: seed}
}

func TestComposeAllForms(t *testing.T) {
	c := motif.New(patterns.New(), nil, nil)
	table := mensura.DefaultConstraints()
	for _, form := range mensura.Forms {
		for _, instr := range mensura.Instruments {
			req := request(form, instr, 5)
			req.Variations = motif.Options{Diminution: true, Ornamentation: true, Rhythmic: true, SmoothTransitions: true}
			s, err := c.Compose(req)
			require.NoError(t, err, "form %v instrument %v", form, instr)
			require.Len(t, s.Voices, 3)
			assert.True(t, form.InTempoBand(s.TempoBPM))
			for _, v := range s.Voices {
				require.NotEmpty(t, v.Notes)
				ic := table[v.Instrument]
				for _, n := range v.Notes {
					require.NoError(t, n.Validate())
					if n.Sounding() {
						assert.True(t, ic.CanPlayPitch(n.Pitch), "%v on %v: %v Hz", form, instr, n.Pitch)
					}
				}
			}
		}
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := motif.New(patterns.New(), nil, nil)
	req := request(mensura.Galliard, mensura.MechanicalLute, 11)
	req.Variations.Ornamentation = true
	a, err := c.Compose(req)
	require.NoError(t, err)
	b, err := c.Compose(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeModeWithoutPatterns(t *testing.T) {
	c := motif.New(patterns.New(), nil, nil)
	req := request(mensura.Chanson, mensura.MechanicalOrgan, 2)
	req.Mode = mensura.Hypolydian
	s, err := c.Compose(req)
	require.NoError(t, err)
	assert.Equal(t, mensura.Hypolydian, s.Mode)
}

func TestSegments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, form := range mensura.Forms {
		segs := motif.Segments(form, 13, rng)
		total := 0
		for _, s := range segs {
			assert.Equal(t, total, s.Start)
			total += s.Measures
			if form.IsDance() {
				assert.LessOrEqual(t, s.Measures, 2)
			}
		}
		assert.Equal(t, 13, total)
	}
}

func TestEnsureSmoothTransitions(t *testing.T) {
	v := mensura.Voice{Name: "v", Notes: []mensura.Note{
		{Pitch: 293.66, Duration: 1, Velocity: 0.8},
		{Pitch: 440, Duration: 1, Velocity: 0.8, StartTime: 1},
	}}
	require.Equal(t, 1, motif.EnsureSmoothTransitions(&v, []int{1}))
	require.Len(t, v.Notes, 3)
	assert.InDelta(t, (293.66+440)/2, v.Notes[1].Pitch, 1e-9)
	assert.Equal(t, 1.0, v.Notes[1].StartTime)
	assert.Equal(t, 0.5, v.Notes[1].Duration)
	assert.Equal(t, 1.5, v.Notes[2].StartTime)

	step := mensura.Voice{Name: "v", Notes: []mensura.Note{
		{Pitch: 293.66, Duration: 1, Velocity: 0.8},
		{Pitch: 329.63, Duration: 1, Velocity: 0.8, StartTime: 1},
	}}
	assert.Equal(t, 0, motif.EnsureSmoothTransitions(&step, []int{1}))
	assert.Len(t, step.Notes, 2)
}

func totalDuration(notes []mensura.Note) float64 {
	ret := 0.0
	for _, n := range notes {
		ret += n.Duration
	}
	return ret
}

func TestDiminution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	notes := []mensura.Note{{Pitch: 440, Duration: 1, Velocity: 0.8}, {Duration: 1, StartTime: 1, IsRest: true}}
	got := motif.Diminution(notes, 0.25, rng)
	require.Len(t, got, 5)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.25, got[i].Duration, 1e-12)
		assert.InDelta(t, 0.25*float64(i), got[i].StartTime, 1e-12)
		step := math.Abs(float64(mensura.Semitones(got[0].Pitch, got[i].Pitch)))
		assert.True(t, step == float64(i) || step == float64(2*i), "part %v is %v semitones away", i, step)
	}
	assert.True(t, got[4].IsRest)
}

func TestOrnamentationPreservesLength(t *testing.T) {
	notes := []mensura.Note{
		{Pitch: 440, Duration: 1, Velocity: 0.8},
		{Pitch: 392, Duration: 0.1, Velocity: 0.8, StartTime: 1},
		{Pitch: 349.23, Duration: 0.5, Velocity: 0.8, StartTime: 1.1},
	}
	for seed := int64(0); seed < 10; seed++ {
		got := motif.Ornamentation(notes, false, rand.New(rand.NewSource(seed)))
		assert.InDelta(t, totalDuration(notes), totalDuration(got), 1e-12)
		assert.GreaterOrEqual(t, len(got), len(notes))
		for i := 1; i < len(got); i++ {
			assert.InDelta(t, got[i-1].End(), got[i].StartTime, 1e-12)
		}
	}
}

func TestRhythmicVariationIsBackToBack(t *testing.T) {
	notes := []mensura.Note{
		{Pitch: 440, Duration: 1, Velocity: 0.8, StartTime: 2},
		{Pitch: 392, Duration: 0.2, Velocity: 0.8, StartTime: 3},
		{Pitch: 349.23, Duration: 0.5, Velocity: 0.8, StartTime: 3.2},
	}
	for seed := int64(0); seed < 10; seed++ {
		got := motif.RhythmicVariation(append([]mensura.Note(nil), notes...), rand.New(rand.NewSource(seed)))
		require.NotEmpty(t, got)
		assert.Equal(t, 2.0, got[0].StartTime)
		for i := 1; i < len(got); i++ {
			assert.InDelta(t, got[i-1].End(), got[i].StartTime, 1e-12)
		}
	}
}

func TestSeparateKeepsGaps(t *testing.T) {
	notes := []mensura.Note{
		{Pitch: 440, Duration: 0.3, Velocity: 0.8},
		{Pitch: 392, Duration: 0.1, Velocity: 0.8, StartTime: 0.1},
		{Duration: 0.5, StartTime: 0.2, IsRest: true},
		{Pitch: 349.23, Duration: 0.1, Velocity: 0.8, StartTime: 1},
	}
	got := motif.Separate(notes)
	assert.InDelta(t, 0.3, got[1].StartTime, 1e-12)
	assert.InDelta(t, 0.4, got[2].StartTime, 1e-12)
	assert.InDelta(t, 1.2, got[3].StartTime, 1e-12, "gap after the rest is kept")
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].StartTime, got[i-1].End()-1e-12)
	}
}

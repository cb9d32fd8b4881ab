// Package compose generates Renaissance-style scores from harmonic rules:
// a chord plan chosen by form, one chord tone per voice and role, and a
// register per role.
package compose

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"github.com/vsariola/mensura"
)

const (
	toneSwitchChance = 0.3
	maxLeap          = 12 // semitones
	baseVelocity     = 0.7
	accentVelocity   = 0.85
)

type (
	// Request describes the piece to generate. Equal requests, seed included,
	// produce equal scores.
	Request struct {
		Title       string
		Form        mensura.Form
		Mode        mensura.Mode
		Assignments []mensura.Assignment
		Measures    int
		Seed        int64
	}

	// Generator is the rule-based composer.
	Generator struct {
		constraints map[mensura.InstrumentType]mensura.InstrumentConstraints
		logger      *slog.Logger
	}
)

// registers are the octave multipliers applied to the chord tones of each
// role.
var registers = map[mensura.Role]float64{
	mensura.Soprano: 2,
	mensura.Alto:    1,
	mensura.Tenor:   1,
	mensura.Bass:    0.5,
}

// chordTones are the triad members (0 root, 1 third, 2 fifth) each role
// sings by default.
var chordTones = map[mensura.Role]int{
	mensura.Soprano: 2,
	mensura.Alto:    1,
	mensura.Tenor:   1,
	mensura.Bass:    0,
}

// New returns a generator using the constraint table to place the voices in
// the ranges of their instruments. A nil table means the built-in one; a nil
// logger means slog.Default().
func New(constraints map[mensura.InstrumentType]mensura.InstrumentConstraints, logger *slog.Logger) *Generator {
	if constraints == nil {
		constraints = mensura.DefaultConstraints()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{constraints: constraints, logger: logger}
}

// Generate composes a score for the request.
func (g *Generator) Generate(req Request) (*mensura.Score, error) {
	info, ok := req.Form.Info()
	if !ok {
		return nil, fmt.Errorf("unknown form %q", req.Form)
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
	if req.Measures < 1 {
		return nil, fmt.Errorf("number of measures should be at least 1, got %v", req.Measures)
	}
	if err := mensura.ValidateAssignments(req.Assignments, g.constraints); err != nil {
		return nil, fmt.Errorf("invalid assignments: %w", err)
	}
	rng := rand.New(rand.NewSource(req.Seed))
	tempo := info.MinTempo + float64(rng.Intn(int(info.MaxTempo-info.MinTempo)+1))
	triads := Triads(req.Mode)
	plan := ChordPlan(req.Form, req.Measures, rng)
	beat := 60 / tempo
	score := &mensura.Score{
		Title:    req.Title,
		Composer: "mensura rule-based generator",
		Mode:     req.Mode,
		Form:     req.Form,
		TempoBPM: tempo,
	}
	for vi, a := range req.Assignments {
		c := g.constraints[a.Instrument]
		voice := mensura.Voice{Name: a.Voice, Instrument: a.Instrument, RangeLow: c.PitchLow, RangeHigh: c.PitchHigh}
		t := 0.0
		prev := 0.0
		for _, degree := range plan {
			for k, beats := range measureRhythm(req.Form, info.BeatsPerMeasure, a.Role, rng) {
				tone := chordTones[a.Role]
				if rng.Float64() < toneSwitchChance {
					tone = (tone + 1 + rng.Intn(2)) % 3
				}
				pitch := triads[degree][tone] * registers[a.Role]
				d := beats * beat
				velocity := baseVelocity
				if k == 0 {
					velocity = accentVelocity
				}
				if prev > 0 && math.Abs(float64(mensura.Semitones(prev, pitch))) > maxLeap {
					mid := math.Sqrt(prev * pitch)
					voice.Notes = append(voice.Notes, mensura.Note{Pitch: mid, Duration: d / 2, Velocity: velocity, StartTime: t, Voice: vi})
					voice.Notes = append(voice.Notes, mensura.Note{Pitch: pitch, Duration: d / 2, Velocity: velocity, StartTime: t + d/2, Voice: vi})
				} else {
					voice.Notes = append(voice.Notes, mensura.Note{Pitch: pitch, Duration: d, Velocity: velocity, StartTime: t, Voice: vi})
				}
				prev = pitch
				t += d
			}
		}
		for i := range voice.Notes {
			voice.Notes[i].Pitch, _ = mensura.OctaveShiftInto(voice.Notes[i].Pitch, c.PitchLow, c.PitchHigh)
		}
		score.Voices = append(score.Voices, voice)
	}
	score.SetMeta("generator", "rule")
	score.SetMeta("seed", strconv.FormatInt(req.Seed, 10))
	g.logger.Debug("generated score",
		slog.String("form", string(req.Form)),
		slog.String("mode", string(req.Mode)),
		slog.Float64("tempo", tempo),
		slog.Int("voices", len(score.Voices)),
		slog.Int("notes", score.NumNotes()))
	return score, nil
}

// Triads returns the seven triads built on the degrees of the mode's scale,
// counted from the final. Chord tones above the octave wrap into the next
// octave.
func Triads(mode mensura.Mode) [7][3]float64 {
	scale := mode.Scale()
	final := mode.FinalDegree()
	degree := func(i int) float64 {
		return scale[i%7] * math.Pow(2, float64(i/7))
	}
	var ret [7][3]float64
	for d := 0; d < 7; d++ {
		root := final + d
		ret[d] = [3]float64{degree(root), degree(root + 2), degree(root + 4)}
	}
	return ret
}

// Package motif composes scores by chaining patterns from the pattern
// library, adapting each pattern to the instrument and role of the voice and
// optionally varying it.
package motif

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/viterin/vek"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/patterns"
)

type (
	// Request describes the piece to compose.
	Request struct {
		Title       string
		Form        mensura.Form
		Mode        mensura.Mode
		Assignments []mensura.Assignment
		Measures    int
		Seed        int64
		Variations  Options
	}

	// Composer is the pattern-based composer.
	Composer struct {
		lib         *patterns.Library
		constraints map[mensura.InstrumentType]mensura.InstrumentConstraints
		logger      *slog.Logger
	}

	// Segment is one pattern placed in the piece, spanning Measures measures
	// from measure Start.
	Segment struct {
		Start    int
		Measures int
	}
)

// multipliers are the register factors of each role.
var multipliers = map[mensura.Role]float64{
	mensura.Soprano: 2,
	mensura.Alto:    1.5,
	mensura.Tenor:   1,
	mensura.Bass:    0.5,
}

// New returns a composer drawing from lib. A nil constraint table means the
// built-in one; a nil logger means slog.Default().
func New(lib *patterns.Library, constraints map[mensura.InstrumentType]mensura.InstrumentConstraints, logger *slog.Logger) *Composer {
	if constraints == nil {
		constraints = mensura.DefaultConstraints()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{lib: lib, constraints: constraints, logger: logger}
}

// Compose builds a score for the request.
func (c *Composer) Compose(req Request) (*mensura.Score, error) {
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
	if err := mensura.ValidateAssignments(req.Assignments, c.constraints); err != nil {
		return nil, fmt.Errorf("invalid assignments: %w", err)
	}
	rng := rand.New(rand.NewSource(req.Seed))
	tempo := info.MinTempo + float64(rng.Intn(int(info.MaxTempo-info.MinTempo)+1))
	measureDur := float64(info.BeatsPerMeasure) * 60 / tempo
	segments := Segments(req.Form, req.Measures, rng)
	score := &mensura.Score{
		Title:    req.Title,
		Composer: "mensura pattern-based composer",
		Mode:     req.Mode,
		Form:     req.Form,
		TempoBPM: tempo,
	}
	for vi, a := range req.Assignments {
		ic := c.constraints[a.Instrument]
		voice := mensura.Voice{Name: a.Voice, Instrument: a.Instrument, RangeLow: ic.PitchLow, RangeHigh: ic.PitchHigh}
		chain, err := c.chain(req.Form, req.Mode, a.Instrument, len(segments), rng)
		if err != nil {
			return nil, fmt.Errorf("voice %v: %w", a.Voice, err)
		}
		var boundaries []int
		offset := 0.0
		for si, seg := range segments {
			notes := c.place(chain[si], a, ic, float64(seg.Measures)*measureDur)
			notes = c.vary(notes, a.Instrument, ic, req.Variations, rng)
			boundaries = append(boundaries, len(voice.Notes))
			for _, n := range notes {
				n.StartTime += offset
				n.Voice = vi
				voice.Notes = append(voice.Notes, n)
			}
			offset = max(offset+float64(seg.Measures)*measureDur, voice.Duration())
		}
		if req.Variations.SmoothTransitions {
			EnsureSmoothTransitions(&voice, boundaries[1:])
		}
		for i := range voice.Notes {
			voice.Notes[i].Pitch, _ = mensura.OctaveShiftInto(voice.Notes[i].Pitch, ic.PitchLow, ic.PitchHigh)
		}
		score.Voices = append(score.Voices, voice)
	}
	score.SetMeta("generator", "pattern")
	score.SetMeta("seed", strconv.FormatInt(req.Seed, 10))
	c.logger.Debug("composed score",
		slog.String("form", string(req.Form)),
		slog.String("mode", string(req.Mode)),
		slog.Int("segments", len(segments)),
		slog.Int("notes", score.NumNotes()))
	return score, nil
}

// Segments splits the measures into pattern segments. Dances use segments of
// one or two measures, isorhythmic motets two or four, the other forms one,
// two or four. The last segment is shortened to fit.
func Segments(form mensura.Form, measures int, rng *rand.Rand) []Segment {
	lengths := []int{1, 2, 4}
	switch {
	case form.IsDance():
		lengths = []int{1, 2}
	case form == mensura.Isorhythmic:
		lengths = []int{2, 4}
	}
	var ret []Segment
	for m := 0; m < measures; {
		n := min(lengths[rng.Intn(len(lengths))], measures-m)
		ret = append(ret, Segment{Start: m, Measures: n})
		m += n
	}
	return ret
}

// chain picks n patterns following the successor table, starting from a
// dance rhythm in dance forms and from the first suitable type otherwise.
func (c *Composer) chain(form mensura.Form, mode mensura.Mode, instr mensura.InstrumentType, n int, rng *rand.Rand) ([]mensura.MusicalPattern, error) {
	ret := make([]mensura.MusicalPattern, 0, n)
	formTypes := patterns.FormTypes[form]
	start := formTypes
	if form.IsDance() {
		start = intersect(formTypes, patterns.DanceTypes())
	}
	candidates := start
	for i := 0; i < n; i++ {
		p, err := c.pick(candidates, mode, instr, rng)
		if err != nil {
			// fall back to anything the form allows
			p, err = c.pick(formTypes, mode, instr, rng)
		}
		if err != nil {
			return nil, err
		}
		ret = append(ret, p)
		next := patterns.Transitions[p.PatternType]
		candidates = intersect(next, formTypes)
		if len(candidates) == 0 {
			candidates = next
		}
	}
	return ret, nil
}

// pick draws a pattern of one of the types, preferring patterns written in
// the mode and transposing others into it.
func (c *Composer) pick(types []mensura.PatternType, mode mensura.Mode, instr mensura.InstrumentType, rng *rand.Rand) (mensura.MusicalPattern, error) {
	f := patterns.Filter{Mode: mode, Instrument: instr, Types: types}
	p, err := c.lib.Random(rng, f)
	if errors.Is(err, patterns.ErrNoCandidates) {
		f.Mode = ""
		p, err = c.lib.Random(rng, f)
	}
	if err != nil {
		return mensura.MusicalPattern{}, err
	}
	return patterns.AdaptToMode(p, mode), nil
}

// place adapts a pattern to the voice: role register, instrument range,
// linear time scaling to the segment span and the instrument's duration
// floor. The result starts at time zero.
func (c *Composer) place(p mensura.MusicalPattern, a mensura.Assignment, ic mensura.InstrumentConstraints, span float64) []mensura.Note {
	notes := p.Copy().Notes
	if len(notes) == 0 {
		return nil
	}
	mult := multipliers[a.Role]
	t0 := notes[0].StartTime
	starts := make([]float64, len(notes))
	durations := make([]float64, len(notes))
	for i := range notes {
		if notes[i].Sounding() {
			notes[i].Pitch, _ = mensura.OctaveShiftInto(notes[i].Pitch*mult, ic.PitchLow, ic.PitchHigh)
		}
		starts[i] = notes[i].StartTime - t0
		durations[i] = notes[i].Duration
	}
	if s := p.Span(); s > 0 {
		k := span / s
		starts = vek.MulNumber(starts, k)
		durations = vek.MulNumber(durations, k)
	}
	floored := false
	for i := range notes {
		notes[i].StartTime = starts[i]
		notes[i].Duration = durations[i]
		if notes[i].Sounding() && notes[i].Duration < ic.MinDuration {
			notes[i].Duration = ic.MinDuration
			floored = true
		}
	}
	if floored {
		notes = Separate(notes)
	}
	return notes
}

func (c *Composer) vary(notes []mensura.Note, instr mensura.InstrumentType, ic mensura.InstrumentConstraints, o Options, rng *rand.Rand) []mensura.Note {
	if o.Diminution {
		notes = Diminution(notes, max(ic.MinDuration, ic.RapidThreshold), rng)
	}
	if o.Ornamentation {
		notes = Ornamentation(notes, patterns.InstrumentProfiles[instr].MaxComplexity >= 3, rng)
	}
	if o.Rhythmic {
		notes = RhythmicVariation(notes, rng)
	}
	return notes
}

func intersect(a, b []mensura.PatternType) []mensura.PatternType {
	var ret []mensura.PatternType
	for _, x := range a {
		for _, y := range b {
			if x == y {
				ret = append(ret, x)
				break
			}
		}
	}
	return ret
}

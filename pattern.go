package mensura

// PatternType is the bucket a MusicalPattern is catalogued under.
type PatternType string

const (
	CadencePattern     PatternType = "cadence"
	OrnamentPattern    PatternType = "ornament"
	PavaneRhythm       PatternType = "pavane_rhythm"
	GalliardRhythm     PatternType = "galliard_rhythm"
	BasseDanseRhythm   PatternType = "basse_danse_rhythm"
	IsorhythmicPattern PatternType = "isorhythmic"
)

// IsDance reports whether the pattern type is one of the dance rhythms.
func (t PatternType) IsDance() bool {
	return t == PavaneRhythm || t == GalliardRhythm || t == BasseDanseRhythm
}

// MusicalPattern is a reusable motif: a short list of notes together with
// its voice-leading intervals (in semitones) and rhythm profile (note
// durations). Tags give context such as the ornament kind; Source tells
// where the pattern came from. Patterns are reference data and should not be
// modified once added to a library; use Copy to derive new ones.
type MusicalPattern struct {
	Name        string      `yaml:"name" json:"name"`
	PatternType PatternType `yaml:"type" json:"type"`
	Mode        Mode        `yaml:"mode" json:"mode"`
	Notes       []Note      `yaml:"notes,flow" json:"notes"`
	Intervals   []int       `yaml:"intervals,flow" json:"intervals"`
	Rhythm      []float64   `yaml:"rhythm,flow" json:"rhythm"`
	Tags        []string    `yaml:"tags,flow,omitempty" json:"tags,omitempty"`
	Source      string      `yaml:"source,omitempty" json:"source,omitempty"`
}

// ornament kinds recognized as pattern subtypes
var ornamentKinds = []string{"trill", "mordent", "turn", "groppo", "tirata"}

// Copy makes a deep copy of a MusicalPattern.
func (p *MusicalPattern) Copy() MusicalPattern {
	ret := *p
	ret.Notes = append([]Note(nil), p.Notes...)
	ret.Intervals = append([]int(nil), p.Intervals...)
	ret.Rhythm = append([]float64(nil), p.Rhythm...)
	ret.Tags = append([]string(nil), p.Tags...)
	return ret
}

// HasTags reports whether the pattern carries every one of the tags.
func (p *MusicalPattern) HasTags(tags ...string) bool {
	for _, t := range tags {
		found := false
		for _, pt := range p.Tags {
			if pt == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Subtype returns the ornament kind of the pattern, found among its tags, or
// "" if there is none.
func (p *MusicalPattern) Subtype() string {
	for _, k := range ornamentKinds {
		if p.HasTags(k) {
			return k
		}
	}
	return ""
}

// Complexity grades the pattern 1..3 by its number of notes.
func (p *MusicalPattern) Complexity() int {
	switch n := len(p.Notes); {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Span returns the time from the first onset to the last note end.
func (p *MusicalPattern) Span() float64 {
	if len(p.Notes) == 0 {
		return 0
	}
	start := p.Notes[0].StartTime
	end := start
	for _, n := range p.Notes {
		start = min(start, n.StartTime)
		end = max(end, n.End())
	}
	return end - start
}

// NewPattern builds a pattern from the notes, deriving the voice-leading
// intervals and the rhythm profile.
func NewPattern(name string, typ PatternType, mode Mode, notes []Note, tags ...string) MusicalPattern {
	p := MusicalPattern{Name: name, PatternType: typ, Mode: mode, Notes: append([]Note(nil), notes...), Tags: tags}
	p.Rhythm = make([]float64, len(notes))
	var prev float64
	for i, n := range notes {
		p.Rhythm[i] = n.Duration
		if n.Sounding() {
			if prev > 0 {
				p.Intervals = append(p.Intervals, Semitones(prev, n.Pitch))
			}
			prev = n.Pitch
		}
	}
	return p
}

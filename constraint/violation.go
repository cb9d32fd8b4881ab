package constraint

import (
	"fmt"

	"github.com/vsariola/mensura"
)

// Category groups violations by the kind of repair they need.
type Category string

const (
	PitchRange        Category = "pitch_range"
	DurationRange     Category = "duration"
	Legato            Category = "legato"
	MechanicalDelay   Category = "mechanical_delay"
	RapidPassage      Category = "rapid_passage"
	Polyphony         Category = "polyphony"
	TempoRange        Category = "tempo"
	UnknownInstrument Category = "unknown_instrument"
)

// Categories lists all categories in reporting order.
var Categories = []Category{PitchRange, DurationRange, Legato, MechanicalDelay, RapidPassage, Polyphony, TempoRange, UnknownInstrument}

// Violation is one failed check. Violations are values to be collected and
// reported, never errors to abort on. VoiceIndex and Note are -1 when the
// violation is not tied to a voice or a note.
type Violation struct {
	Category   Category               `json:"category"`
	Voice      string                 `json:"voice,omitempty"`
	VoiceIndex int                    `json:"voice_index"`
	Instrument mensura.InstrumentType `json:"instrument"`
	Note       int                    `json:"note"`
	Time       float64                `json:"time"`
	Message    string                 `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

func newViolation(cat Category, voice string, instr mensura.InstrumentType, note int, t float64, format string, args ...any) Violation {
	return Violation{
		Category:   cat,
		Voice:      voice,
		VoiceIndex: -1,
		Instrument: instr,
		Note:       note,
		Time:       t,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Strings returns the messages of the violations.
func Strings(vs []Violation) []string {
	ret := make([]string, len(vs))
	for i, v := range vs {
		ret[i] = v.Message
	}
	return ret
}

// GroupByCategory splits the violations by category, keeping their order
// within each category.
func GroupByCategory(vs []Violation) map[Category][]Violation {
	ret := map[Category][]Violation{}
	for _, v := range vs {
		ret[v.Category] = append(ret[v.Category], v)
	}
	return ret
}

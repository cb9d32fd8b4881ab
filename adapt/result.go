package adapt

import (
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/analyzer"
	"github.com/vsariola/mensura/constraint"
)

// State is the stage an adaptation run has reached.
type State int

const (
	Unvalidated State = iota
	ValidatedOK
	ValidatedWithViolations
	Adapted
	RevalidatedOK
	RevalidatedWithViolations
)

var stateNames = [...]string{
	"unvalidated",
	"validated_ok",
	"validated_with_violations",
	"adapted",
	"revalidated_ok",
	"revalidated_with_violations",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == ValidatedOK || s == RevalidatedOK || s == RevalidatedWithViolations
}

// next returns the state following s after a validation. Validating twice
// never happens; Adapted only follows ValidatedWithViolations.
func (s State) next(violations bool) State {
	switch s {
	case Unvalidated:
		if violations {
			return ValidatedWithViolations
		}
		return ValidatedOK
	case ValidatedWithViolations:
		return Adapted
	case Adapted:
		if violations {
			return RevalidatedWithViolations
		}
		return RevalidatedOK
	}
	return s
}

type (
	// ChangeKind tells what a repair did to a note.
	ChangeKind string

	// Change is one edit of one note. For inserted rests, Index is the index
	// of the rest after insertion, Before is 0 and After is the rest length.
	// For shifts, Before and After are the start times.
	Change struct {
		Voice  string     `json:"voice"`
		Index  int        `json:"index"`
		Kind   ChangeKind `json:"kind"`
		Before float64    `json:"before"`
		After  float64    `json:"after"`
	}

	// Revision groups the changes made by one repair step, in order.
	Revision struct {
		Category constraint.Category `json:"category"`
		Changes  []Change            `json:"changes"`
		Note     string              `json:"note,omitempty"`
	}

	// Result is the outcome of an adaptation run. Original is never
	// modified; Adapted is the single copy the repairs worked on.
	Result struct {
		ID                string
		Original          *mensura.Score
		Adapted           *mensura.Score
		Analysis          analyzer.Analysis
		Log               []string
		InitialViolations []constraint.Violation
		Violations        []constraint.Violation
		Substitutions     map[string]string
		Feasibility       map[mensura.InstrumentType]float64
		Suggestions       []string
		Success           bool
		State             State
		Revisions         []Revision
	}
)

const (
	PitchChange    ChangeKind = "pitch"
	DurationChange ChangeKind = "duration"
	RestInserted   ChangeKind = "rest_inserted"
	StartShifted   ChangeKind = "start_shifted"
)

// NumChanges returns the total number of note changes over all revisions.
func (r *Result) NumChanges() int {
	n := 0
	for _, rev := range r.Revisions {
		n += len(rev.Changes)
	}
	return n
}

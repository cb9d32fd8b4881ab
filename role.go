package mensura

import "fmt"

// Role is the register a voice takes in the four-part texture.
type Role string

const (
	Soprano Role = "soprano"
	Alto    Role = "alto"
	Tenor   Role = "tenor"
	Bass    Role = "bass"
)

var Roles = []Role{Soprano, Alto, Tenor, Bass}

func (r Role) Valid() bool {
	switch r {
	case Soprano, Alto, Tenor, Bass:
		return true
	}
	return false
}

// Assignment tells a generator which instrument plays a voice, and in which
// role.
type Assignment struct {
	Voice      string         `json:"voice" yaml:"voice"`
	Role       Role           `json:"role" yaml:"role"`
	Instrument InstrumentType `json:"instrument" yaml:"instrument"`
}

// DefaultAssignments returns n voices (1..4) named after their roles, all
// played by the given instrument. The roles are taken from the top:
// one voice is a soprano, two voices soprano and bass, three add a tenor.
func DefaultAssignments(n int, instr InstrumentType) ([]Assignment, error) {
	var roles []Role
	switch n {
	case 1:
		roles = []Role{Soprano}
	case 2:
		roles = []Role{Soprano, Bass}
	case 3:
		roles = []Role{Soprano, Tenor, Bass}
	case 4:
		roles = []Role{Soprano, Alto, Tenor, Bass}
	default:
		return nil, fmt.Errorf("number of voices should be 1..4, got %v", n)
	}
	ret := make([]Assignment, len(roles))
	for i, r := range roles {
		ret[i] = Assignment{Voice: string(r), Role: r, Instrument: instr}
	}
	return ret, nil
}

// ValidateAssignments checks the assignments against the constraint table.
func ValidateAssignments(as []Assignment, table map[InstrumentType]InstrumentConstraints) error {
	if len(as) == 0 {
		return fmt.Errorf("no voices assigned")
	}
	seen := map[string]bool{}
	for _, a := range as {
		if a.Voice == "" {
			return fmt.Errorf("assignment with an empty voice name")
		}
		if seen[a.Voice] {
			return fmt.Errorf("voice %v assigned twice", a.Voice)
		}
		seen[a.Voice] = true
		if !a.Role.Valid() {
			return fmt.Errorf("voice %v: unknown role %q", a.Voice, a.Role)
		}
		if _, ok := table[a.Instrument]; !ok {
			return fmt.Errorf("voice %v: unknown instrument %q", a.Voice, a.Instrument)
		}
	}
	return nil
}

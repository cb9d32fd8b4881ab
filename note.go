package mensura

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Note is a single pitched note or rest of a Voice. Pitch is in Hz, Duration
// and StartTime in seconds, and Velocity is normalized to 0..1. Voice is the
// index of the voice the note belongs to and is kept only as a hint for
// consumers of flattened note lists.
//
// Notes should be created with NewNote or NewRest, which reject out-of-domain
// values. Decoding a Note from JSON or YAML runs the same checks.
type Note struct {
	Pitch     float64 `json:"pitch" yaml:"pitch"`
	Duration  float64 `json:"duration" yaml:"duration"`
	Velocity  float64 `json:"velocity" yaml:"velocity"`
	StartTime float64 `json:"start_time" yaml:"start_time"`
	Voice     int     `json:"voice" yaml:"voice"`
	IsRest    bool    `json:"is_rest" yaml:"is_rest"`
}

// ConstructionError is returned when a Note would be created with a value
// outside of its domain. It is the only error the data model fails fast with.
type ConstructionError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid note %s %v: %s", e.Field, e.Value, e.Reason)
}

// NewNote returns a validated sounding note.
func NewNote(pitch, duration, velocity, start float64, voice int) (Note, error) {
	n := Note{Pitch: pitch, Duration: duration, Velocity: velocity, StartTime: start, Voice: voice}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// NewRest returns a validated rest. Rests have zero pitch and velocity.
func NewRest(duration, start float64, voice int) (Note, error) {
	n := Note{Duration: duration, StartTime: start, Voice: voice, IsRest: true}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Validate checks the four numeric fields of the note. Velocity 0 and 1 are
// both accepted.
func (n Note) Validate() error {
	switch {
	case n.Pitch < 0:
		return &ConstructionError{Field: "pitch", Value: n.Pitch, Reason: "must be >= 0"}
	case n.Duration <= 0:
		return &ConstructionError{Field: "duration", Value: n.Duration, Reason: "must be > 0"}
	case n.Velocity < 0 || n.Velocity > 1:
		return &ConstructionError{Field: "velocity", Value: n.Velocity, Reason: "must be within [0, 1]"}
	case n.StartTime < 0:
		return &ConstructionError{Field: "start_time", Value: n.StartTime, Reason: "must be >= 0"}
	}
	return nil
}

// End returns the time in seconds when the note stops sounding.
func (n Note) End() float64 {
	return n.StartTime + n.Duration
}

// Sounding reports whether the note produces a pitch.
func (n Note) Sounding() bool {
	return !n.IsRest && n.Pitch > 0
}

// WithPitch returns a validated copy of the note with a new pitch.
func (n Note) WithPitch(pitch float64) (Note, error) {
	n.Pitch = pitch
	return n, n.Validate()
}

// WithDuration returns a validated copy of the note with a new duration.
func (n Note) WithDuration(duration float64) (Note, error) {
	n.Duration = duration
	return n, n.Validate()
}

// WithStart returns a validated copy of the note with a new start time.
func (n Note) WithStart(start float64) (Note, error) {
	n.StartTime = start
	return n, n.Validate()
}

func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := Note(p).Validate(); err != nil {
		return err
	}
	*n = Note(p)
	return nil
}

func (n *Note) UnmarshalYAML(value *yaml.Node) error {
	type plain Note
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if err := Note(p).Validate(); err != nil {
		return err
	}
	*n = Note(p)
	return nil
}

package mensura

import (
	"encoding/json"
	"fmt"
	"os"
)

// EventKind tells the renderer whether an event is a pitched note or a
// percussive stroke.
type EventKind string

const (
	Pitched    EventKind = "pitched"
	Percussive EventKind = "percussive"
)

type (
	// Event is one playback event of the flat ensemble format.
	Event struct {
		TimeS       float64   `json:"time_s"`
		FrequencyHz float64   `json:"frequency_hz"`
		Intensity   float64   `json:"intensity"`
		Kind        EventKind `json:"kind"`
	}

	// Ensemble is the hand-off format to audio renderers: one ordered event
	// list per instrument slug.
	Ensemble struct {
		TempoBPM        float64            `json:"tempo_bpm"`
		Measures        int                `json:"measures"`
		BeatsPerMeasure int                `json:"beats_per_measure"`
		Score           map[string][]Event `json:"score"`
	}

	// AudioRenderer is the sink that turns an ensemble into an audio file. The
	// returned string is the path of the written file.
	AudioRenderer interface {
		RenderEnsemble(e *Ensemble, sampleRate int, path string) (string, error)
	}
)

// MeasureDuration returns the length of one measure in seconds.
func (e *Ensemble) MeasureDuration() float64 {
	if e.TempoBPM <= 0 {
		return 0
	}
	return float64(e.BeatsPerMeasure) * 60 / e.TempoBPM
}

// Duration returns the time of the last event of any instrument.
func (e *Ensemble) Duration() float64 {
	ret := 0.0
	for _, events := range e.Score {
		for _, ev := range events {
			ret = max(ret, ev.TimeS)
		}
	}
	return ret
}

// NumEvents returns the total number of events over all instruments.
func (e *Ensemble) NumEvents() int {
	ret := 0
	for _, events := range e.Score {
		ret += len(events)
	}
	return ret
}

// SaveJSON writes the ensemble to path as indented JSON.
func (e *Ensemble) SaveJSON(path string) error {
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal ensemble: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

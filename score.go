package mensura

type (
	// Score is a piece of polyphonic music: some descriptive fields, the tempo
	// and a list of voices. Metadata holds free-form annotations such as the
	// generator and seed that produced the score.
	Score struct {
		Title    string            `json:"title" yaml:"title"`
		Composer string            `json:"composer" yaml:"composer"`
		Mode     Mode              `json:"mode" yaml:"mode"`
		Form     Form              `json:"form" yaml:"form"`
		TempoBPM float64           `json:"tempo_bpm" yaml:"tempo_bpm"`
		Voices   []Voice           `json:"voices" yaml:"voices"`
		Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	}

	// Voice is one line of a Score, played by a single instrument. Notes are
	// kept in playing order. RangeLow and RangeHigh are the nominal pitch range
	// of the line, usually the range of its instrument.
	Voice struct {
		Name       string         `json:"name" yaml:"name"`
		Instrument InstrumentType `json:"instrument" yaml:"instrument"`
		RangeLow   float64        `json:"range_low" yaml:"range_low"`
		RangeHigh  float64        `json:"range_high" yaml:"range_high"`
		Notes      []Note         `json:"notes" yaml:"notes"`
	}

	// IndexedNote is a note together with its index in Voice.Notes.
	IndexedNote struct {
		Index int
		Note
	}
)

// Copy makes a deep copy of a Voice.
func (v *Voice) Copy() Voice {
	notes := make([]Note, len(v.Notes))
	copy(notes, v.Notes)
	return Voice{Name: v.Name, Instrument: v.Instrument, RangeLow: v.RangeLow, RangeHigh: v.RangeHigh, Notes: notes}
}

// Sounding returns the non-rest notes of the voice, with their indices.
func (v *Voice) Sounding() []IndexedNote {
	ret := make([]IndexedNote, 0, len(v.Notes))
	for i, n := range v.Notes {
		if n.Sounding() {
			ret = append(ret, IndexedNote{Index: i, Note: n})
		}
	}
	return ret
}

// Duration returns the latest end time of any note of the voice.
func (v *Voice) Duration() float64 {
	ret := 0.0
	for _, n := range v.Notes {
		ret = max(ret, n.End())
	}
	return ret
}

// Pitches returns the pitches of the sounding notes, in order.
func (v *Voice) Pitches() []float64 {
	ret := make([]float64, 0, len(v.Notes))
	for _, n := range v.Notes {
		if n.Sounding() {
			ret = append(ret, n.Pitch)
		}
	}
	return ret
}

// Copy makes a deep copy of a Score.
func (s *Score) Copy() *Score {
	voices := make([]Voice, len(s.Voices))
	for i := range s.Voices {
		voices[i] = s.Voices[i].Copy()
	}
	var metadata map[string]string
	if s.Metadata != nil {
		metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			metadata[k] = v
		}
	}
	return &Score{
		Title:    s.Title,
		Composer: s.Composer,
		Mode:     s.Mode,
		Form:     s.Form,
		TempoBPM: s.TempoBPM,
		Voices:   voices,
		Metadata: metadata,
	}
}

// Duration returns the maximum end time over all voices.
func (s *Score) Duration() float64 {
	ret := 0.0
	for i := range s.Voices {
		ret = max(ret, s.Voices[i].Duration())
	}
	return ret
}

// Voice returns the voice with the given name, or nil.
func (s *Score) Voice(name string) *Voice {
	for i := range s.Voices {
		if s.Voices[i].Name == name {
			return &s.Voices[i]
		}
	}
	return nil
}

// NumNotes returns the total number of notes, rests included.
func (s *Score) NumNotes() int {
	ret := 0
	for _, v := range s.Voices {
		ret += len(v.Notes)
	}
	return ret
}

// BeatDuration returns the length of one beat in seconds, or 0 if the tempo
// is not set.
func (s *Score) BeatDuration() float64 {
	if s.TempoBPM <= 0 {
		return 0
	}
	return 60 / s.TempoBPM
}

// SetMeta sets a metadata entry, allocating the map if needed.
func (s *Score) SetMeta(key, value string) {
	if s.Metadata == nil {
		s.Metadata = map[string]string{}
	}
	s.Metadata[key] = value
}

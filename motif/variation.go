package motif

import (
	"math"
	"math/rand"

	"github.com/vsariola/mensura"
)

const (
	maxDiminution      = 4
	ornamentChance     = 0.5
	ornamentMinLength  = 0.2 // seconds
	rhythmicChance     = 0.3
	subdivideMinLength = 0.4 // seconds
	neighbor           = 2   // semitones
)

// Options switches the variation operators on and off.
type Options struct {
	Diminution        bool `json:"diminution" yaml:"diminution"`
	Ornamentation     bool `json:"ornamentation" yaml:"ornamentation"`
	Rhythmic          bool `json:"rhythmic" yaml:"rhythmic"`
	SmoothTransitions bool `json:"smooth_transitions" yaml:"smooth_transitions"`
}

// Diminution splits every note into up to four equal parts no shorter than
// minDur, moving stepwise by one or two semitones in a random direction.
func Diminution(notes []mensura.Note, minDur float64, rng *rand.Rand) []mensura.Note {
	ret := make([]mensura.Note, 0, len(notes))
	for _, n := range notes {
		k := 1
		if minDur > 0 {
			k = min(maxDiminution, int(math.Floor(n.Duration/minDur)))
		}
		if !n.Sounding() || k < 2 {
			ret = append(ret, n)
			continue
		}
		step := float64(1 + rng.Intn(2))
		if rng.Intn(2) == 0 {
			step = -step
		}
		d := n.Duration / float64(k)
		for j := 0; j < k; j++ {
			part := n
			part.Pitch = mensura.Transpose(n.Pitch, step*float64(j))
			part.Duration = d
			part.StartTime = n.StartTime + float64(j)*d
			ret = append(ret, part)
		}
	}
	return ret
}

// Ornamentation replaces, with even chance, each note of at least 0.2 s with
// a trill, turn or mordent of the same total length. Trills are left out when
// allowTrill is false.
func Ornamentation(notes []mensura.Note, allowTrill bool, rng *rand.Rand) []mensura.Note {
	kinds := []string{"turn", "mordent"}
	if allowTrill {
		kinds = append(kinds, "trill")
	}
	ret := make([]mensura.Note, 0, len(notes))
	for _, n := range notes {
		if !n.Sounding() || n.Duration < ornamentMinLength || rng.Float64() >= ornamentChance {
			ret = append(ret, n)
			continue
		}
		up := mensura.Transpose(n.Pitch, neighbor)
		down := mensura.Transpose(n.Pitch, -neighbor)
		q := n.Duration / 4
		var pitches, durations []float64
		switch kinds[rng.Intn(len(kinds))] {
		case "trill":
			pitches, durations = []float64{n.Pitch, up, n.Pitch, up}, []float64{q, q, q, q}
		case "turn":
			pitches, durations = []float64{up, n.Pitch, down, n.Pitch}, []float64{q, q, q, q}
		default:
			pitches, durations = []float64{n.Pitch, down, n.Pitch}, []float64{q, q, 2 * q}
		}
		t := n.StartTime
		for i, p := range pitches {
			part := n
			part.Pitch, part.Duration, part.StartTime = p, durations[i], t
			ret = append(ret, part)
			t += durations[i]
		}
	}
	return ret
}

// RhythmicVariation changes, with 30 % chance each, the rhythm of a note:
// notes longer than 0.4 s are subdivided into 2-4 equal parts, shorter ones
// doubled in length. The line is relaid back to back afterwards.
func RhythmicVariation(notes []mensura.Note, rng *rand.Rand) []mensura.Note {
	if len(notes) == 0 {
		return nil
	}
	ret := make([]mensura.Note, 0, len(notes))
	for _, n := range notes {
		if rng.Float64() >= rhythmicChance {
			ret = append(ret, n)
			continue
		}
		if n.Duration > subdivideMinLength {
			k := 2 + rng.Intn(3)
			for j := 0; j < k; j++ {
				part := n
				part.Duration = n.Duration / float64(k)
				ret = append(ret, part)
			}
			continue
		}
		n.Duration *= 2
		ret = append(ret, n)
	}
	return Relayout(ret, notes[0].StartTime)
}

// Relayout places the notes back to back starting at start.
func Relayout(notes []mensura.Note, start float64) []mensura.Note {
	t := start
	for i := range notes {
		notes[i].StartTime = t
		t += notes[i].Duration
	}
	return notes
}

// Separate delays every note that starts before its predecessor ends, and
// everything after it by the same amount. Silent gaps between notes take up
// an overlap before anything is delayed.
func Separate(notes []mensura.Note) []mensura.Note {
	shift := 0.0
	for i := 1; i < len(notes); i++ {
		start := notes[i].StartTime + shift
		if end := notes[i-1].End(); start < end {
			shift += end - start
			start = end
		}
		notes[i].StartTime = start
	}
	return notes
}

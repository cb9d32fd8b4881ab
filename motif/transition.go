package motif

import (
	"slices"

	"github.com/vsariola/mensura"
)

const (
	// MaxSegmentLeap is the largest leap between segments, in semitones,
	// left alone by EnsureSmoothTransitions: a perfect fourth.
	MaxSegmentLeap = 5
	passingLength  = 0.5 // seconds
	passingLevel   = 0.6
)

// EnsureSmoothTransitions inserts a passing tone at every segment boundary
// where the voice leaps by more than a perfect fourth. boundaries holds the
// indices of the first note of each segment. The passing tone lasts 0.5 s at
// the arithmetic mean of the two pitches, and everything after it is delayed
// by the same amount. It returns the number of tones inserted.
func EnsureSmoothTransitions(v *mensura.Voice, boundaries []int) int {
	inserted := 0
	b := slices.Clone(boundaries)
	slices.Sort(b)
	for i := len(b) - 1; i >= 0; i-- {
		at := b[i]
		if at <= 0 || at >= len(v.Notes) {
			continue
		}
		prev, next := lastSounding(v.Notes[:at]), firstSounding(v.Notes, at)
		if prev < 0 || next < 0 {
			continue
		}
		p, q := v.Notes[prev], v.Notes[next]
		if abs(mensura.Semitones(p.Pitch, q.Pitch)) <= MaxSegmentLeap {
			continue
		}
		start := v.Notes[at].StartTime
		passing := mensura.Note{
			Pitch:     (p.Pitch + q.Pitch) / 2,
			Duration:  passingLength,
			Velocity:  passingLevel,
			StartTime: start,
			Voice:     q.Voice,
		}
		for j := at; j < len(v.Notes); j++ {
			v.Notes[j].StartTime += passingLength
		}
		v.Notes = slices.Insert(v.Notes, at, passing)
		inserted++
	}
	return inserted
}

func lastSounding(notes []mensura.Note) int {
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].Sounding() {
			return i
		}
	}
	return -1
}

func firstSounding(notes []mensura.Note, from int) int {
	for i := from; i < len(notes); i++ {
		if notes[i].Sounding() {
			return i
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

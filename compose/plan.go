package compose

import (
	"math/rand"

	"github.com/vsariola/mensura"
)

// scale degrees of the chords, counted from the final
const (
	tonic       = 0
	mediant     = 2
	subdominant = 3
	dominant    = 4
	submediant  = 5
)

// progressions are the common four-measure progressions of the non-dance
// forms.
var progressions = [][4]int{
	{tonic, subdominant, dominant, tonic},
	{tonic, submediant, subdominant, dominant},
	{tonic, mediant, subdominant, dominant},
	{tonic, dominant, submediant, subdominant},
}

var (
	slowDanceChords = []int{tonic, subdominant, dominant}
	slowDanceClose  = []int{tonic, dominant, dominant, tonic}
	fastDanceCycle  = []int{tonic, subdominant, tonic, dominant}
)

// ChordPlan returns one chord degree per measure.
//
// Slow dances draw from i, IV and v and close with i-v-v-i over the last four
// measures. Fast dances cycle i-IV-i-v. The other forms start and end on the
// tonic, put the dominant at the midpoint and fill the rest from a common
// progression drawn for every block of four measures.
func ChordPlan(form mensura.Form, measures int, rng *rand.Rand) []int {
	ret := make([]int, measures)
	info := mensura.FormTable[form]
	switch {
	case info.Dance && info.Slow:
		for m := range ret {
			ret[m] = slowDanceChords[rng.Intn(len(slowDanceChords))]
		}
		closing := slowDanceClose
		if measures < len(closing) {
			closing = closing[len(closing)-measures:]
		}
		copy(ret[measures-len(closing):], closing)
	case info.Dance:
		for m := range ret {
			ret[m] = fastDanceCycle[m%len(fastDanceCycle)]
		}
	default:
		var prog [4]int
		for m := range ret {
			if m%4 == 0 {
				prog = progressions[rng.Intn(len(progressions))]
			}
			ret[m] = prog[m%4]
		}
		ret[measures/2] = dominant
		ret[0] = tonic
		ret[measures-1] = tonic
	}
	return ret
}

// measureRhythm returns the note lengths of one measure, in beats.
func measureRhythm(form mensura.Form, beats int, role mensura.Role, rng *rand.Rand) []float64 {
	switch form {
	case mensura.Pavane:
		if role == mensura.Bass {
			return []float64{2, 2}
		}
		return []float64{2, 1, 1}
	case mensura.Galliard:
		if role == mensura.Bass {
			return []float64{3}
		}
		return []float64{1, 0.5, 0.5, 1}
	case mensura.BasseDanse:
		if role == mensura.Soprano {
			return []float64{2, 1}
		}
		return []float64{3}
	}
	b := float64(beats)
	options := [][]float64{{b}, {b - 1, 1}}
	if beats%2 == 0 {
		options = append(options, []float64{b / 2, b / 2})
	}
	if role != mensura.Bass {
		ones := make([]float64, beats)
		for i := range ones {
			ones[i] = 1
		}
		options = append(options, ones)
	}
	return options[rng.Intn(len(options))]
}

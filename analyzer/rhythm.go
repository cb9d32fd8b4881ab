package analyzer

import (
	"math"

	"github.com/viterin/vek"
	"github.com/vsariola/mensura"
)

const (
	ratioTolerance = 0.15
	shapeTolerance = 0.10
	longRatio      = 1.5

	// DanceRhythm is the key of the dance-rhythm confidence in the map
	// returned by DetectRhythmicPatterns.
	DanceRhythm = "dance_rhythm"
)

// mensurations maps duration ratios (relative to the shortest note) to the
// name of the mensuration they indicate.
var mensurations = []struct {
	ratio float64
	name  string
}{
	{1.0, "imperfect_prolation"},
	{1.5, "perfect_prolation"},
	{2.0, "imperfect_tempus"},
	{3.0, "perfect_tempus"},
}

// DetectRhythmicPatterns returns confidences 0..1 for the mensurations and
// the dance rhythm found in the score. Only non-zero entries are present.
func (a *Analyzer) DetectRhythmicPatterns(score *mensura.Score) map[string]float64 {
	ret := map[string]float64{}
	var durations []float64
	for i := range score.Voices {
		durations = append(durations, soundingDurations(&score.Voices[i])...)
	}
	if len(durations) == 0 {
		return ret
	}
	ratios := vek.DivNumber(durations, vek.Min(durations))
	for _, m := range mensurations {
		count := 0
		for _, r := range ratios {
			if math.Abs(r-m.ratio) <= ratioTolerance*m.ratio {
				count++
			}
		}
		if count > 0 {
			ret[m.name] = float64(count) / float64(len(ratios))
		}
	}
	if c := danceConfidence(score, durations); c > 0 {
		ret[DanceRhythm] = c
	}
	return ret
}

func soundingDurations(v *mensura.Voice) []float64 {
	ret := make([]float64, 0, len(v.Notes))
	for _, n := range v.Notes {
		if n.Sounding() {
			ret = append(ret, n.Duration)
		}
	}
	return ret
}

// danceConfidence is 1 for scores using at most two distinct durations.
// Otherwise a long-short-short or short-short-long shape recurring at least
// twice gives 0.5 plus half its share of all 3-note windows.
func danceConfidence(score *mensura.Score, durations []float64) float64 {
	distinct := map[float64]bool{}
	for _, d := range durations {
		distinct[math.Round(d*1e6)/1e6] = true
	}
	if len(distinct) <= 2 {
		return 1
	}
	var lss, ssl, windows int
	for i := range score.Voices {
		d := soundingDurations(&score.Voices[i])
		for j := 0; j+2 < len(d); j++ {
			windows++
			switch {
			case d[j] >= longRatio*d[j+1] && near(d[j+1], d[j+2], shapeTolerance):
				lss++
			case d[j+2] >= longRatio*d[j+1] && near(d[j], d[j+1], shapeTolerance):
				ssl++
			}
		}
	}
	best := max(lss, ssl)
	if best < 2 {
		return 0
	}
	return 0.5 + 0.5*float64(best)/float64(windows)
}

// near reports whether a and b differ by at most tol relative to a.
func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*a
}

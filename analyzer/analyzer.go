// Package analyzer extracts mode, mensuration, melodic figures, voice leading
// and form from a score. All results are deterministic functions of the
// score.
package analyzer

import (
	"math"

	"github.com/viterin/vek"
	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/patterns"
)

const (
	finalWeight    = 0.4
	ambitusWeight  = 0.3
	intervalWeight = 0.3

	// ModeThreshold is the score a mode must exceed to be reported.
	ModeThreshold = 0.6
)

// Analyzer runs the analyses. The pattern library is used to recognize known
// figures among the detected ones; it may be nil.
type Analyzer struct {
	lib *patterns.Library
}

// Analysis bundles the results of every analysis of one score.
type Analysis struct {
	Mode         mensura.Mode
	ModeFound    bool
	ModeScores   map[mensura.Mode]float64
	Rhythms      map[string]float64
	Patterns     []mensura.MusicalPattern
	VoiceLeading map[string][][2]float64
	Form         mensura.Form
	FormFound    bool
}

func New(lib *patterns.Library) *Analyzer {
	return &Analyzer{lib: lib}
}

// Analyze runs all analyses on the score.
func (a *Analyzer) Analyze(score *mensura.Score) Analysis {
	mode, modeFound := a.AnalyzeMode(score)
	form, formFound := a.ClassifyMusicalForm(score)
	return Analysis{
		Mode:         mode,
		ModeFound:    modeFound,
		ModeScores:   a.ModeScores(score),
		Rhythms:      a.DetectRhythmicPatterns(score),
		Patterns:     a.IdentifyMelodicPatterns(score),
		VoiceLeading: a.ExtractVoiceLeading(score),
		Form:         form,
		FormFound:    formFound,
	}
}

func soundingPitches(score *mensura.Score) []float64 {
	var ret []float64
	for i := range score.Voices {
		ret = append(ret, score.Voices[i].Pitches()...)
	}
	return ret
}

// AnalyzeMode returns the best matching mode, or false if no mode scores
// above ModeThreshold. Ties go to the mode listed first in mensura.Modes.
func (a *Analyzer) AnalyzeMode(score *mensura.Score) (mensura.Mode, bool) {
	scores := a.ModeScores(score)
	var best mensura.Mode
	bestScore := math.Inf(-1)
	for _, m := range mensura.Modes {
		if s, ok := scores[m]; ok && s > bestScore {
			best, bestScore = m, s
		}
	}
	if bestScore <= ModeThreshold {
		return "", false
	}
	return best, true
}

// ModeScores returns the match score 0..1 of every mode. A score without
// sounding notes returns an empty map.
func (a *Analyzer) ModeScores(score *mensura.Score) map[mensura.Mode]float64 {
	ret := map[mensura.Mode]float64{}
	pitches := soundingPitches(score)
	if len(pitches) == 0 {
		return ret
	}
	final := candidateFinal(pitches)
	lo, hi := vek.Min(pitches), vek.Max(pitches)
	intervals := melodicIntervals(score)
	for _, m := range mensura.Modes {
		info := mensura.ModeTable[m]
		s := 0.0
		if mensura.PitchClassDistance(mensura.PitchClass(final), mensura.PitchClass(info.Final)) <= 1 {
			s += finalWeight
		}
		s += ambitusWeight * ambitusMatch(lo, hi, info.RangeLow, info.RangeHigh)
		s += intervalWeight * stepMatch(intervals, info.Steps)
		ret[m] = s
	}
	return ret
}

// candidateFinal returns the lowest pitch of the most frequent pitch class.
// Ties between classes go to the lowest class index.
func candidateFinal(pitches []float64) float64 {
	var hist [12]int
	for _, p := range pitches {
		hist[mensura.PitchClass(p)]++
	}
	class := 0
	for c := 1; c < 12; c++ {
		if hist[c] > hist[class] {
			class = c
		}
	}
	ret := math.Inf(1)
	for _, p := range pitches {
		if mensura.PitchClass(p) == class {
			ret = min(ret, p)
		}
	}
	return ret
}

func ambitusMatch(lo, hi, refLo, refHi float64) float64 {
	center := math.Sqrt(lo * hi)
	refCenter := math.Sqrt(refLo * refHi)
	width := math.Log2(hi / lo)
	refWidth := math.Log2(refHi / refLo)
	return max(0, 1-(math.Abs(math.Log2(center/refCenter))+math.Abs(width-refWidth)))
}

// melodicIntervals returns the non-unison absolute intervals between adjacent
// sounding notes, voice after voice.
func melodicIntervals(score *mensura.Score) []int {
	var ret []int
	for i := range score.Voices {
		pitches := score.Voices[i].Pitches()
		for j := 1; j < len(pitches); j++ {
			d := mensura.Semitones(pitches[j-1], pitches[j])
			if d < 0 {
				d = -d
			}
			if d != 0 {
				ret = append(ret, d)
			}
		}
	}
	return ret
}

func stepMatch(intervals []int, steps [7]int) float64 {
	if len(intervals) == 0 {
		return 0
	}
	hits := 0
	for i, d := range intervals {
		if d == steps[i%7] {
			hits++
		}
	}
	return float64(hits) / float64(len(intervals))
}

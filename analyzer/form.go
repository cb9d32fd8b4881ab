package analyzer

import (
	"math"

	"github.com/vsariola/mensura"
)

const (
	periodTolerance = 0.10
	motetMinLength  = 90.0  // seconds
	chansonMaxLen   = 120.0 // seconds
)

var danceForms = []mensura.Form{mensura.Pavane, mensura.Galliard, mensura.BasseDanse}

// ClassifyMusicalForm runs a cascade of rules, first match wins: dances,
// isorhythmic motet, motet, madrigal, chanson, fantasia. It returns false
// when no rule matches.
func (a *Analyzer) ClassifyMusicalForm(score *mensura.Score) (mensura.Form, bool) {
	voices := len(score.Voices)
	if voices == 0 {
		return "", false
	}
	if voices <= 2 && a.DetectRhythmicPatterns(score)[DanceRhythm] > 0 {
		for _, f := range danceForms {
			if f.InTempoBand(score.TempoBPM) {
				return f, true
			}
		}
	}
	if voices >= 2 {
		for i := range score.Voices {
			if _, ok := DurationPeriod(soundingDurations(&score.Voices[i])); ok {
				return mensura.Isorhythmic, true
			}
		}
	}
	duration := score.Duration()
	if voices >= 4 {
		if _, ok := a.AnalyzeMode(score); ok && duration >= motetMinLength {
			return mensura.Motet, true
		}
		return mensura.Madrigal, true
	}
	if voices == 3 && duration <= chansonMaxLen {
		return mensura.Chanson, true
	}
	if voices >= 3 {
		return mensura.Fantasia, true
	}
	return "", false
}

// DurationPeriod returns the shortest period p in 2..len/2 such that the
// durations repeat with period p, every duration within 10 % of the one p
// notes earlier. A talea made of equal durations does not count.
func DurationPeriod(d []float64) (int, bool) {
outer:
	for p := 2; p <= len(d)/2; p++ {
		if uniform(d[:p]) {
			continue
		}
		for i := p; i < len(d); i++ {
			if math.Abs(d[i]-d[i-p]) > periodTolerance*d[i-p] {
				continue outer
			}
		}
		return p, true
	}
	return 0, false
}

func uniform(d []float64) bool {
	for _, x := range d[1:] {
		if math.Abs(x-d[0]) > periodTolerance*d[0] {
			return false
		}
	}
	return true
}

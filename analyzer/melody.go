package analyzer

import (
	"fmt"
	"slices"

	"github.com/vsariola/mensura"
)

const (
	cadenceWindow    = 4
	cadenceStep      = 2 // semitones
	ornamentWindow   = 3
	ornamentStep     = 4 // semitones
	ornamentDuration = 0.3
)

// IdentifyMelodicPatterns slides windows over the sounding notes of every
// voice and returns the cadence and ornament figures found, in scan order.
// Figures are rebased to start at time zero. A figure whose intervals equal
// those of a library pattern of the same type carries the tag
// "matches:<name>".
func (a *Analyzer) IdentifyMelodicPatterns(score *mensura.Score) []mensura.MusicalPattern {
	var ret []mensura.MusicalPattern
	for vi := range score.Voices {
		voice := &score.Voices[vi]
		sounding := voice.Sounding()
		for i := range sounding {
			if i+cadenceWindow <= len(sounding) {
				w := sounding[i : i+cadenceWindow]
				if abs(mensura.Semitones(w[cadenceWindow-2].Pitch, w[cadenceWindow-1].Pitch)) <= cadenceStep {
					ret = append(ret, a.figure(fmt.Sprintf("%s_cadence_%d", voice.Name, w[0].Index), mensura.CadencePattern, score.Mode, w))
				}
			}
			if i+ornamentWindow <= len(sounding) {
				w := sounding[i : i+ornamentWindow]
				if isOrnament(w) {
					ret = append(ret, a.figure(fmt.Sprintf("%s_ornament_%d", voice.Name, w[0].Index), mensura.OrnamentPattern, score.Mode, w))
				}
			}
		}
	}
	return ret
}

func isOrnament(w []mensura.IndexedNote) bool {
	total := 0.0
	for _, n := range w {
		total += n.Duration
	}
	if total/float64(len(w)) >= ornamentDuration {
		return false
	}
	for j := 1; j < len(w); j++ {
		if abs(mensura.Semitones(w[j-1].Pitch, w[j].Pitch)) > ornamentStep {
			return false
		}
	}
	return true
}

func (a *Analyzer) figure(name string, typ mensura.PatternType, mode mensura.Mode, w []mensura.IndexedNote) mensura.MusicalPattern {
	notes := make([]mensura.Note, len(w))
	t0 := w[0].StartTime
	for i, n := range w {
		notes[i] = n.Note
		notes[i].StartTime -= t0
	}
	p := mensura.NewPattern(name, typ, mode, notes)
	p.Source = "analysis"
	if a.lib != nil {
		for _, q := range a.lib.All() {
			if q.PatternType == typ && slices.Equal(q.Intervals, p.Intervals) {
				p.Tags = append(p.Tags, "matches:"+q.Name)
			}
		}
	}
	return p
}

// ExtractVoiceLeading returns, for every voice, the (previous, next) pitch
// pairs of adjacent sounding notes.
func (a *Analyzer) ExtractVoiceLeading(score *mensura.Score) map[string][][2]float64 {
	ret := make(map[string][][2]float64, len(score.Voices))
	for i := range score.Voices {
		pitches := score.Voices[i].Pitches()
		pairs := make([][2]float64, 0, max(0, len(pitches)-1))
		for j := 1; j < len(pitches); j++ {
			pairs = append(pairs, [2]float64{pitches[j-1], pitches[j]})
		}
		ret[score.Voices[i].Name] = pairs
	}
	return ret
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

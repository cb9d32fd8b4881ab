package constraint

import (
	"fmt"

	"github.com/vsariola/mensura"
)

const (
	replaceBelow  = 0.5
	simplifyBelow = FeasibleThreshold
)

// SuggestAdaptations turns a report into human-readable hints: one per
// category and voice (or instrument) found in the report, followed by
// feasibility advice for every instrument below the success threshold.
func (v *Validator) SuggestAdaptations(r *Report) []string {
	var ret []string
	seen := map[string]bool{}
	emit := func(s string) {
		if !seen[s] {
			seen[s] = true
			ret = append(ret, s)
		}
	}
	groups := GroupByCategory(r.Violations)
	for _, cat := range Categories {
		for _, viol := range groups[cat] {
			c := v.constraints[viol.Instrument]
			switch cat {
			case PitchRange:
				emit(fmt.Sprintf("transpose out-of-range notes of %s by octaves into %.2f-%.2f Hz", viol.Voice, c.PitchLow, c.PitchHigh))
			case DurationRange:
				emit(fmt.Sprintf("adjust note durations of %s into %.3f-%.3f s", viol.Voice, c.MinDuration, c.MaxDuration))
			case Legato:
				emit(fmt.Sprintf("%s cannot play legato: leave gaps of at least %.0f ms between notes of %s", viol.Instrument, LegatoGap*1000, viol.Voice))
			case MechanicalDelay:
				emit(fmt.Sprintf("lengthen notes of %s to at least the %.3f s mechanical delay of %s", viol.Voice, c.MechanicalDelay, viol.Instrument))
			case RapidPassage:
				emit(fmt.Sprintf("break up rapid passages of %s with rests or slow the tempo (at most %d notes closer than %.3f s)", viol.Voice, c.MaxRapidRun, c.RapidThreshold))
			case Polyphony:
				emit(fmt.Sprintf("reduce simultaneous notes on %s to %d or move a voice to another instrument", viol.Instrument, c.MaxPolyphony))
			case TempoRange:
				emit(fmt.Sprintf("choose a tempo between %.0f and %.0f BPM for %s", c.MinTempo, c.MaxTempo, viol.Instrument))
			case UnknownInstrument:
				emit(fmt.Sprintf("assign %s to one of the known instruments", viol.Voice))
			}
		}
	}
	for _, instr := range mensura.SortedInstruments(r.Feasibility) {
		f := r.Feasibility[instr]
		switch {
		case f < replaceBelow:
			emit(fmt.Sprintf("%s: feasibility %.2f, use a different instrument", instr, f))
		case f < simplifyBelow:
			emit(fmt.Sprintf("%s: feasibility %.2f, simplify the part", instr, f))
		}
	}
	return ret
}

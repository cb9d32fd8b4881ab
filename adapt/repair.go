package adapt

import (
	"fmt"
	"slices"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/constraint"
)

type repairFunc func(score *mensura.Score, report *constraint.Report, table map[mensura.InstrumentType]mensura.InstrumentConstraints) Revision

// repairs run in this order; later repairs see the edits of earlier ones.
var repairs = []struct {
	category constraint.Category
	fn       repairFunc
}{
	{constraint.PitchRange, repairPitch},
	{constraint.DurationRange, repairDuration},
	{constraint.RapidPassage, repairRapid},
	{constraint.Polyphony, repairPolyphony},
}

// repairPitch moves every out-of-range note by octaves into the range of its
// instrument, clamping when the range is narrower than an octave.
func repairPitch(score *mensura.Score, report *constraint.Report, table map[mensura.InstrumentType]mensura.InstrumentConstraints) Revision {
	rev := Revision{Category: constraint.PitchRange}
	for _, v := range report.Violations {
		if v.Category != constraint.PitchRange || v.VoiceIndex < 0 || v.Note < 0 {
			continue
		}
		c := table[v.Instrument]
		n := &score.Voices[v.VoiceIndex].Notes[v.Note]
		before := n.Pitch
		n.Pitch, _ = mensura.OctaveShiftInto(n.Pitch, c.PitchLow, c.PitchHigh)
		rev.Changes = append(rev.Changes, Change{Voice: v.Voice, Index: v.Note, Kind: PitchChange, Before: before, After: n.Pitch})
	}
	return rev
}

// repairDuration clamps every out-of-range duration into the range of the
// instrument.
func repairDuration(score *mensura.Score, report *constraint.Report, table map[mensura.InstrumentType]mensura.InstrumentConstraints) Revision {
	rev := Revision{Category: constraint.DurationRange}
	for _, v := range report.Violations {
		if v.Category != constraint.DurationRange || v.VoiceIndex < 0 || v.Note < 0 {
			continue
		}
		c := table[v.Instrument]
		n := &score.Voices[v.VoiceIndex].Notes[v.Note]
		before := n.Duration
		n.Duration = c.ClampDuration(n.Duration)
		rev.Changes = append(rev.Changes, Change{Voice: v.Voice, Index: v.Note, Kind: DurationChange, Before: before, After: n.Duration})
	}
	return rev
}

// repairRapid breaks every too long rapid run of a flagged voice: after each
// MaxRapidRun notes of the run, a rest as long as the rapid threshold is
// inserted and all later notes of the voice are delayed by the same amount.
func repairRapid(score *mensura.Score, report *constraint.Report, table map[mensura.InstrumentType]mensura.InstrumentConstraints) Revision {
	rev := Revision{Category: constraint.RapidPassage}
	var flagged []int
	for _, v := range report.Violations {
		if v.Category == constraint.RapidPassage && v.VoiceIndex >= 0 && !slices.Contains(flagged, v.VoiceIndex) {
			flagged = append(flagged, v.VoiceIndex)
		}
	}
	for _, vi := range flagged {
		voice := &score.Voices[vi]
		c := table[report.Voices[vi].Instrument]
		sounding := voice.Sounding()
		// note indices before which a rest goes, in increasing order
		var cuts []int
		for _, run := range constraint.RapidRuns(sounding, c.RapidThreshold) {
			for k := c.MaxRapidRun; k < run.Length; k += c.MaxRapidRun {
				cuts = append(cuts, sounding[run.Start+k].Index)
			}
		}
		for j := len(cuts) - 1; j >= 0; j-- {
			at := cuts[j]
			start := voice.Notes[at].StartTime
			for i := at; i < len(voice.Notes); i++ {
				voice.Notes[i].StartTime += c.RapidThreshold
			}
			rest := mensura.Note{Duration: c.RapidThreshold, StartTime: start, Voice: voice.Notes[at].Voice, IsRest: true}
			voice.Notes = slices.Insert(voice.Notes, at, rest)
		}
		// report the edits in playing order, with post-insertion indices
		for j, at := range cuts {
			idx := at + j
			rev.Changes = append(rev.Changes, Change{Voice: voice.Name, Index: idx, Kind: RestInserted, After: c.RapidThreshold})
		}
		if len(cuts) > 0 {
			rev.Changes = append(rev.Changes, Change{
				Voice:  voice.Name,
				Index:  cuts[0] + 1,
				Kind:   StartShifted,
				Before: voice.Notes[cuts[0]].StartTime,
				After:  voice.Notes[cuts[0]+1].StartTime,
			})
		}
	}
	return rev
}

// repairPolyphony only records the conflicts; resolving them is not
// supported.
func repairPolyphony(score *mensura.Score, report *constraint.Report, table map[mensura.InstrumentType]mensura.InstrumentConstraints) Revision {
	n := report.Count(constraint.Polyphony)
	rev := Revision{Category: constraint.Polyphony}
	if n > 0 {
		rev.Note = fmt.Sprintf("%d polyphony conflicts left unresolved", n)
	}
	return rev
}

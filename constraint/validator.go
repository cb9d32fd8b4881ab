// Package constraint checks scores against the mechanical limits of the
// instruments that are to play them.
package constraint

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/vsariola/mensura"
	"gopkg.in/yaml.v3"
)

const (
	// LegatoGap is the largest gap between two notes, in seconds, at which
	// they count as connected.
	LegatoGap = 0.010

	// FeasibleThreshold is the feasibility every instrument must reach for a
	// score to pass validation.
	FeasibleThreshold = 0.7

	pitchPenalty    = 0.2
	durationPenalty = 0.1
	rapidPenalty    = 0.3
)

type (
	// Validator holds the constraint table and runs the checks. The table is
	// configuration; set it up before validating scores.
	Validator struct {
		constraints map[mensura.InstrumentType]mensura.InstrumentConstraints
		validate    *validator.Validate
	}

	// VoiceReport is the outcome of checking one voice.
	VoiceReport struct {
		Voice       string
		Instrument  mensura.InstrumentType
		Violations  []Violation
		Feasibility float64
	}

	// Report is the outcome of checking a whole score.
	Report struct {
		Voices      []VoiceReport
		Violations  []Violation
		Feasibility map[mensura.InstrumentType]float64
	}
)

// New returns a validator with the built-in constraint table.
func New() *Validator {
	return &Validator{constraints: mensura.DefaultConstraints(), validate: validator.New()}
}

// SetConstraints replaces the constraints of one instrument type. The record
// is checked for consistency first.
func (v *Validator) SetConstraints(t mensura.InstrumentType, c mensura.InstrumentConstraints) error {
	if t == "" {
		return fmt.Errorf("empty instrument type")
	}
	if err := v.validate.Struct(c); err != nil {
		return fmt.Errorf("invalid constraints for %v: %w", t, err)
	}
	v.constraints[t] = c
	return nil
}

// Constraints returns the constraints of the instrument type.
func (v *Validator) Constraints(t mensura.InstrumentType) (mensura.InstrumentConstraints, bool) {
	c, ok := v.constraints[t]
	return c, ok
}

// Table returns a copy of the whole constraint table.
func (v *Validator) Table() map[mensura.InstrumentType]mensura.InstrumentConstraints {
	ret := make(map[mensura.InstrumentType]mensura.InstrumentConstraints, len(v.constraints))
	for k, c := range v.constraints {
		ret[k] = c
	}
	return ret
}

// LoadFile applies constraint overrides from a YAML file mapping instrument
// slugs to (possibly partial) constraint records. Fields that are not given
// keep their current values.
func (v *Validator) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read constraints file %v: %w", path, err)
	}
	return v.LoadYAML(b)
}

// LoadYAML is LoadFile for in-memory data.
func (v *Validator) LoadYAML(data []byte) error {
	var raw map[mensura.InstrumentType]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("could not parse constraints: %w", err)
	}
	keys := mensura.SortedInstruments(raw)
	for _, t := range keys {
		node := raw[t]
		c := v.constraints[t]
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("could not parse constraints for %v: %w", t, err)
		}
		if err := v.SetConstraints(t, c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVoice checks every sounding note of the voice against the
// constraints. All checks run to completion; each failure adds one
// violation.
func (v *Validator) ValidateVoice(voice *mensura.Voice, c mensura.InstrumentConstraints) VoiceReport {
	return validateVoice(voice, voice.Instrument, c)
}

func validateVoice(voice *mensura.Voice, instr mensura.InstrumentType, c mensura.InstrumentConstraints) VoiceReport {
	r := VoiceReport{Voice: voice.Name, Instrument: instr}
	sounding := voice.Sounding()
	var pitchCount, durationCount, rapidCount int
	add := func(cat Category, note int, t float64, format string, args ...any) {
		r.Violations = append(r.Violations, newViolation(cat, voice.Name, instr, note, t, format, args...))
	}
	for _, n := range sounding {
		if !c.CanPlayPitch(n.Pitch) {
			pitchCount++
			add(PitchRange, n.Index, n.StartTime, "%s note %d: pitch %.2f Hz outside range %.2f-%.2f Hz of %s",
				voice.Name, n.Index, n.Pitch, c.PitchLow, c.PitchHigh, instr)
		}
	}
	for _, n := range sounding {
		if !c.CanPlayDuration(n.Duration) {
			durationCount++
			add(DurationRange, n.Index, n.StartTime, "%s note %d: duration %.3f s outside range %.3f-%.3f s of %s",
				voice.Name, n.Index, n.Duration, c.MinDuration, c.MaxDuration, instr)
		}
	}
	if !c.CanLegato {
		for i := 1; i < len(sounding); i++ {
			prev, next := sounding[i-1], sounding[i]
			if gap := next.StartTime - prev.End(); gap < LegatoGap {
				add(Legato, next.Index, next.StartTime, "%s notes %d-%d: legato connection (gap %.3f s) not playable on %s",
					voice.Name, prev.Index, next.Index, gap, instr)
			}
		}
	}
	for _, n := range sounding {
		if n.Duration < c.MechanicalDelay {
			add(MechanicalDelay, n.Index, n.StartTime, "%s note %d: duration %.3f s shorter than mechanical delay %.3f s of %s",
				voice.Name, n.Index, n.Duration, c.MechanicalDelay, instr)
		}
	}
	for _, run := range RapidRuns(sounding, c.RapidThreshold) {
		if run.Length > c.MaxRapidRun {
			rapidCount++
			first := sounding[run.Start]
			add(RapidPassage, first.Index, first.StartTime, "%s notes %d-%d: rapid passage of %d notes exceeds %d on %s",
				voice.Name, first.Index, sounding[run.Start+run.Length-1].Index, run.Length, c.MaxRapidRun, instr)
		}
	}
	r.Feasibility = max(0, 1-pitchPenalty*float64(pitchCount)-durationPenalty*float64(durationCount)-rapidPenalty*float64(rapidCount))
	return r
}

// Run is a stretch of consecutive notes whose onsets follow each other
// closer than the rapid-passage threshold. Start indexes the sounding-note
// list the run was computed from.
type Run struct {
	Start  int
	Length int
}

// RapidRuns returns the runs of notes with inter-onset gaps below threshold.
// Runs of a single note are not reported.
func RapidRuns(sounding []mensura.IndexedNote, threshold float64) []Run {
	var ret []Run
	start := 0
	for i := 1; i <= len(sounding); i++ {
		if i < len(sounding) && sounding[i].StartTime-sounding[i-1].StartTime < threshold {
			continue
		}
		if i-start > 1 {
			ret = append(ret, Run{Start: start, Length: i - start})
		}
		start = i
	}
	return ret
}

// ValidateScore checks every voice against the constraints of its
// instrument, then checks the polyphony of each instrument over the whole
// ensemble and the tempo. assignments maps voice names to instruments and
// overrides the instrument stored in the voice; it may be nil.
func (v *Validator) ValidateScore(score *mensura.Score, assignments map[string]mensura.InstrumentType) *Report {
	r := &Report{Feasibility: map[mensura.InstrumentType]float64{}}
	byInstrument := map[mensura.InstrumentType][]int{}
	for i := range score.Voices {
		voice := &score.Voices[i]
		instr := InstrumentOf(voice, assignments)
		c, ok := v.constraints[instr]
		if !ok {
			viol := newViolation(UnknownInstrument, voice.Name, instr, -1, 0, "%s: no constraints for instrument %q", voice.Name, instr)
			viol.VoiceIndex = i
			r.Voices = append(r.Voices, VoiceReport{Voice: voice.Name, Instrument: instr, Violations: []Violation{viol}})
			r.Violations = append(r.Violations, viol)
			r.Feasibility[instr] = 0
			continue
		}
		vr := validateVoice(voice, instr, c)
		for j := range vr.Violations {
			vr.Violations[j].VoiceIndex = i
		}
		r.Voices = append(r.Voices, vr)
		r.Violations = append(r.Violations, vr.Violations...)
		if f, seen := r.Feasibility[instr]; !seen || vr.Feasibility < f {
			r.Feasibility[instr] = vr.Feasibility
		}
		byInstrument[instr] = append(byInstrument[instr], i)
	}
	for _, instr := range mensura.SortedInstruments(byInstrument) {
		c := v.constraints[instr]
		r.Violations = append(r.Violations, polyphonyViolations(score, instr, byInstrument[instr], c)...)
	}
	for _, instr := range mensura.SortedInstruments(byInstrument) {
		c := v.constraints[instr]
		if !c.CanPlayTempo(score.TempoBPM) {
			r.Violations = append(r.Violations, newViolation(TempoRange, "", instr, -1, 0,
				"tempo %.1f BPM outside range %.1f-%.1f BPM of %s", score.TempoBPM, c.MinTempo, c.MaxTempo, instr))
		}
	}
	return r
}

// InstrumentOf returns the instrument that plays the voice.
func InstrumentOf(voice *mensura.Voice, assignments map[string]mensura.InstrumentType) mensura.InstrumentType {
	if t, ok := assignments[voice.Name]; ok {
		return t
	}
	return voice.Instrument
}

// polyphonyViolations counts, at every distinct note on and off time, the
// notes sounding at once on the instrument.
func polyphonyViolations(score *mensura.Score, instr mensura.InstrumentType, voices []int, c mensura.InstrumentConstraints) []Violation {
	var notes []mensura.Note
	for _, i := range voices {
		for _, n := range score.Voices[i].Notes {
			if n.Sounding() {
				notes = append(notes, n)
			}
		}
	}
	times := make([]float64, 0, 2*len(notes))
	for _, n := range notes {
		times = append(times, n.StartTime, n.End())
	}
	sort.Float64s(times)
	var ret []Violation
	for i, t := range times {
		if i > 0 && t == times[i-1] {
			continue
		}
		count := 0
		for _, n := range notes {
			if n.StartTime <= t && t < n.End() {
				count++
			}
		}
		if count > c.MaxPolyphony {
			ret = append(ret, newViolation(Polyphony, "", instr, -1, t,
				"%s: %d simultaneous notes at %.3f s exceed polyphony %d", instr, count, t, c.MaxPolyphony))
		}
	}
	return ret
}

// Success reports whether the score passed: no violations at all and every
// instrument at least FeasibleThreshold feasible.
func (r *Report) Success() bool {
	if len(r.Violations) > 0 {
		return false
	}
	for _, f := range r.Feasibility {
		if f < FeasibleThreshold {
			return false
		}
	}
	return true
}

// Has reports whether any violation of the category was found.
func (r *Report) Has(cat Category) bool {
	for _, v := range r.Violations {
		if v.Category == cat {
			return true
		}
	}
	return false
}

// Count returns the number of violations of the category.
func (r *Report) Count(cat Category) int {
	n := 0
	for _, v := range r.Violations {
		if v.Category == cat {
			n++
		}
	}
	return n
}

package mensura

import "sort"

// InstrumentType identifies one of the mechanical instruments. The string
// value doubles as the instrument slug in the ensemble event format.
type InstrumentType string

const (
	ProgrammableDrum    InstrumentType = "programmable_drum"
	MechanicalOrgan     InstrumentType = "mechanical_organ"
	ViolaOrganista      InstrumentType = "viola_organista"
	MechanicalTrumpeter InstrumentType = "mechanical_trumpeter"
	MechanicalCarillon  InstrumentType = "mechanical_carillon"
	MechanicalLute      InstrumentType = "mechanical_lute"
)

// Instruments lists the built-in instrument types.
var Instruments = []InstrumentType{ProgrammableDrum, MechanicalOrgan, ViolaOrganista, MechanicalTrumpeter, MechanicalCarillon, MechanicalLute}

// Percussive reports whether the instrument produces unpitched strokes. Only
// the drum does.
func (t InstrumentType) Percussive() bool {
	return t == ProgrammableDrum
}

// InstrumentConstraints is the playability envelope of a mechanical
// instrument. Times are in seconds, pitches in Hz.
type InstrumentConstraints struct {
	PitchLow        float64 `yaml:"pitch_low" json:"pitch_low" validate:"gt=0"`
	PitchHigh       float64 `yaml:"pitch_high" json:"pitch_high" validate:"gtfield=PitchLow"`
	MaxPolyphony    int     `yaml:"max_polyphony" json:"max_polyphony" validate:"min=1"`
	MinDuration     float64 `yaml:"min_duration" json:"min_duration" validate:"gt=0"`
	MaxDuration     float64 `yaml:"max_duration" json:"max_duration" validate:"gtfield=MinDuration"`
	RapidThreshold  float64 `yaml:"rapid_threshold" json:"rapid_threshold" validate:"gt=0"`   // inter-onset gap below which notes count as rapid
	MaxRapidRun     int     `yaml:"max_rapid_run" json:"max_rapid_run" validate:"min=1"`      // longest allowed run of rapid notes
	MechanicalDelay float64 `yaml:"mechanical_delay" json:"mechanical_delay" validate:"gte=0"` // response time of the mechanism
	CanLegato       bool    `yaml:"can_legato" json:"can_legato"`
	CanStaccato     bool    `yaml:"can_staccato" json:"can_staccato"`
	MinTempo        float64 `yaml:"min_tempo" json:"min_tempo" validate:"gte=0"`
	MaxTempo        float64 `yaml:"max_tempo" json:"max_tempo" validate:"gtfield=MinTempo"`
}

// CanPlayPitch reports whether p is within the pitch range, both ends
// inclusive.
func (c InstrumentConstraints) CanPlayPitch(p float64) bool {
	return p >= c.PitchLow && p <= c.PitchHigh
}

// CanPlayDuration reports whether d is within the duration range, both ends
// inclusive.
func (c InstrumentConstraints) CanPlayDuration(d float64) bool {
	return d >= c.MinDuration && d <= c.MaxDuration
}

// CanPlayTempo reports whether bpm is within the tempo range.
func (c InstrumentConstraints) CanPlayTempo(bpm float64) bool {
	return bpm >= c.MinTempo && bpm <= c.MaxTempo
}

// ClampDuration limits d to the duration range.
func (c InstrumentConstraints) ClampDuration(d float64) float64 {
	return min(max(d, c.MinDuration), c.MaxDuration)
}

// DefaultConstraints returns a fresh copy of the built-in constraint table.
func DefaultConstraints() map[InstrumentType]InstrumentConstraints {
	return map[InstrumentType]InstrumentConstraints{
		ProgrammableDrum: {
			PitchLow: 80, PitchHigh: 400, MaxPolyphony: 1,
			MinDuration: 0.05, MaxDuration: 2.0,
			RapidThreshold: 0.15, MaxRapidRun: 8, MechanicalDelay: 0.02,
			CanLegato: false, CanStaccato: true, MinTempo: 60, MaxTempo: 160,
		},
		MechanicalOrgan: {
			PitchLow: 65.41, PitchHigh: 1046.5, MaxPolyphony: 4,
			MinDuration: 0.1, MaxDuration: 8.0,
			RapidThreshold: 0.1, MaxRapidRun: 16, MechanicalDelay: 0.03,
			CanLegato: true, CanStaccato: true, MinTempo: 40, MaxTempo: 140,
		},
		ViolaOrganista: {
			PitchLow: 98, PitchHigh: 1318.5, MaxPolyphony: 3,
			MinDuration: 0.15, MaxDuration: 6.0,
			RapidThreshold: 0.12, MaxRapidRun: 12, MechanicalDelay: 0.04,
			CanLegato: true, CanStaccato: false, MinTempo: 40, MaxTempo: 120,
		},
		MechanicalTrumpeter: {
			PitchLow: 174.61, PitchHigh: 880, MaxPolyphony: 1,
			MinDuration: 0.2, MaxDuration: 4.0,
			RapidThreshold: 0.2, MaxRapidRun: 6, MechanicalDelay: 0.05,
			CanLegato: true, CanStaccato: true, MinTempo: 50, MaxTempo: 130,
		},
		MechanicalCarillon: {
			PitchLow: 196, PitchHigh: 1568, MaxPolyphony: 2,
			MinDuration: 0.3, MaxDuration: 4.0,
			RapidThreshold: 0.25, MaxRapidRun: 4, MechanicalDelay: 0.08,
			CanLegato: false, CanStaccato: true, MinTempo: 40, MaxTempo: 110,
		},
		MechanicalLute: {
			PitchLow: 82.41, PitchHigh: 659.26, MaxPolyphony: 2,
			MinDuration: 0.1, MaxDuration: 3.0,
			RapidThreshold: 0.12, MaxRapidRun: 10, MechanicalDelay: 0.03,
			CanLegato: false, CanStaccato: true, MinTempo: 50, MaxTempo: 140,
		},
	}
}

// SortedInstruments returns the keys of m in a stable order.
func SortedInstruments[V any](m map[InstrumentType]V) []InstrumentType {
	ret := make([]InstrumentType, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

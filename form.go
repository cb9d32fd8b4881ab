package mensura

// Form is a musical form. The zero value means "no form".
type Form string

const (
	Pavane      Form = "pavane"
	Galliard    Form = "galliard"
	BasseDanse  Form = "basse_danse"
	Isorhythmic Form = "isorhythmic_motet"
	Chanson     Form = "chanson"
	Madrigal    Form = "madrigal"
	Motet       Form = "motet"
	Fantasia    Form = "fantasia"
)

// Forms lists all known forms, dances first.
var Forms = []Form{Pavane, Galliard, BasseDanse, Isorhythmic, Chanson, Madrigal, Motet, Fantasia}

// FormInfo holds the tempo band (inclusive, in BPM) and the number of beats
// per measure used when generating or tiling a piece of this form.
type FormInfo struct {
	MinTempo        float64
	MaxTempo        float64
	BeatsPerMeasure int
	Dance           bool
	Slow            bool // slow dances use the long closing cadence
}

var FormTable = map[Form]FormInfo{
	Pavane:      {MinTempo: 80, MaxTempo: 110, BeatsPerMeasure: 4, Dance: true, Slow: true},
	Galliard:    {MinTempo: 120, MaxTempo: 140, BeatsPerMeasure: 3, Dance: true},
	BasseDanse:  {MinTempo: 60, MaxTempo: 80, BeatsPerMeasure: 3, Dance: true, Slow: true},
	Isorhythmic: {MinTempo: 50, MaxTempo: 80, BeatsPerMeasure: 3},
	Chanson:     {MinTempo: 90, MaxTempo: 120, BeatsPerMeasure: 4},
	Madrigal:    {MinTempo: 70, MaxTempo: 100, BeatsPerMeasure: 4},
	Motet:       {MinTempo: 60, MaxTempo: 90, BeatsPerMeasure: 4},
	Fantasia:    {MinTempo: 70, MaxTempo: 110, BeatsPerMeasure: 4},
}

// Info returns the reference data of the form and false if it is unknown.
func (f Form) Info() (FormInfo, bool) {
	info, ok := FormTable[f]
	return info, ok
}

func (f Form) Valid() bool {
	_, ok := FormTable[f]
	return ok
}

func (f Form) IsDance() bool {
	return FormTable[f].Dance
}

// InTempoBand reports whether bpm lies within the form's tempo band.
func (f Form) InTempoBand(bpm float64) bool {
	info, ok := FormTable[f]
	return ok && bpm >= info.MinTempo && bpm <= info.MaxTempo
}

// BeatsPerMeasure returns the beats per measure of the form, defaulting to 4.
func (f Form) BeatsPerMeasure() int {
	if info, ok := FormTable[f]; ok && info.BeatsPerMeasure > 0 {
		return info.BeatsPerMeasure
	}
	return 4
}

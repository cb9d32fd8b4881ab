package mensura

import "math"

// Mode is one of the eight church modes. The zero value means "no mode".
type Mode string

const (
	Dorian         Mode = "dorian"
	Hypodorian     Mode = "hypodorian"
	Phrygian       Mode = "phrygian"
	Hypophrygian   Mode = "hypophrygian"
	Lydian         Mode = "lydian"
	Hypolydian     Mode = "hypolydian"
	Mixolydian     Mode = "mixolydian"
	Hypomixolydian Mode = "hypomixolydian"
)

// Modes lists all modes in their traditional numbering order.
var Modes = []Mode{Dorian, Hypodorian, Phrygian, Hypophrygian, Lydian, Hypolydian, Mixolydian, Hypomixolydian}

// ModeInfo documents the reference data of a mode: the final, the ambitus
// and the step pattern of its octave species starting from the ambitus low
// end.
type ModeInfo struct {
	Final     float64 // reference final, Hz
	RangeLow  float64 // reference ambitus, Hz
	RangeHigh float64
	Steps     [7]int // semitone steps of the octave species
	Plagal    bool
}

// semitone offsets from A4 of the natural notes used below
const (
	a3 = -12
	b3 = -10
	c4 = -9
	d4 = -7
	e4 = -5
	f4 = -4
	g4 = -2
	a4 = 0
	b4 = 2
	c5 = 3
	d5 = 5
	e5 = 7
	f5 = 8
	g5 = 10
)

func et(semitonesFromA4 int) float64 {
	return A4 * math.Pow(2, float64(semitonesFromA4)/12)
}

// ModeTable holds the reference data for each mode. Authentic modes span the
// octave above the final, plagal modes the fourth below to the fifth above.
var ModeTable = map[Mode]ModeInfo{
	Dorian:         {Final: et(d4), RangeLow: et(d4), RangeHigh: et(d5), Steps: [7]int{2, 1, 2, 2, 2, 1, 2}},
	Hypodorian:     {Final: et(d4), RangeLow: et(a3), RangeHigh: et(a4), Steps: [7]int{2, 1, 2, 2, 1, 2, 2}, Plagal: true},
	Phrygian:       {Final: et(e4), RangeLow: et(e4), RangeHigh: et(e5), Steps: [7]int{1, 2, 2, 2, 1, 2, 2}},
	Hypophrygian:   {Final: et(e4), RangeLow: et(b3), RangeHigh: et(b4), Steps: [7]int{1, 2, 2, 1, 2, 2, 2}, Plagal: true},
	Lydian:         {Final: et(f4), RangeLow: et(f4), RangeHigh: et(f5), Steps: [7]int{2, 2, 2, 1, 2, 2, 1}},
	Hypolydian:     {Final: et(f4), RangeLow: et(c4), RangeHigh: et(c5), Steps: [7]int{2, 2, 1, 2, 2, 2, 1}, Plagal: true},
	Mixolydian:     {Final: et(g4), RangeLow: et(g4), RangeHigh: et(g5), Steps: [7]int{2, 2, 1, 2, 2, 1, 2}},
	Hypomixolydian: {Final: et(g4), RangeLow: et(d4), RangeHigh: et(d5), Steps: [7]int{2, 1, 2, 2, 2, 1, 2}, Plagal: true},
}

// Info returns the reference data of the mode and false if the mode is
// unknown.
func (m Mode) Info() (ModeInfo, bool) {
	info, ok := ModeTable[m]
	return info, ok
}

// Valid reports whether m is one of the eight modes.
func (m Mode) Valid() bool {
	_, ok := ModeTable[m]
	return ok
}

// Scale returns the eight pitches of the mode's octave species, from the low
// end of the ambitus up to its octave. Unknown modes return nil.
func (m Mode) Scale() []float64 {
	info, ok := ModeTable[m]
	if !ok {
		return nil
	}
	ret := make([]float64, 8)
	ret[0] = info.RangeLow
	semis := 0
	for i, s := range info.Steps {
		semis += s
		ret[i+1] = Transpose(info.RangeLow, float64(semis))
	}
	return ret
}

// FinalDegree returns the index of the final within Scale(): 0 for authentic
// modes and 3 (a fourth above the low end) for plagal modes.
func (m Mode) FinalDegree() int {
	if info, ok := ModeTable[m]; ok && info.Plagal {
		return 3
	}
	return 0
}

package mensura

import "math"

// A4 is the reference pitch all semitone distances are measured against.
const A4 = 440.0

// SemitonesFromA4 returns the distance of pitch from A4 in semitones, not
// rounded. Non-positive pitches return 0.
func SemitonesFromA4(pitch float64) float64 {
	if pitch <= 0 {
		return 0
	}
	return 12 * math.Log2(pitch/A4)
}

// Semitones returns the signed distance from a to b in rounded semitones.
func Semitones(a, b float64) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	return int(math.Round(12 * math.Log2(b/a)))
}

// PitchClass returns the pitch class 0..11 of the pitch, with A as 0.
func PitchClass(pitch float64) int {
	n := int(math.Round(SemitonesFromA4(pitch)))
	return ((n % 12) + 12) % 12
}

// PitchClassDistance returns the circular distance between two pitch classes.
func PitchClassDistance(a, b int) int {
	d := ((a-b)%12 + 12) % 12
	if d > 6 {
		d = 12 - d
	}
	return d
}

// Transpose moves the pitch by the given number of semitones.
func Transpose(pitch float64, semitones float64) float64 {
	return pitch * math.Pow(2, semitones/12)
}

// MIDINote returns the nearest MIDI key number of the pitch, clamped to 0..127.
func MIDINote(pitch float64) uint8 {
	if pitch <= 0 {
		return 0
	}
	k := math.Round(69 + SemitonesFromA4(pitch))
	return uint8(math.Max(0, math.Min(127, k)))
}

// PitchFromMIDI returns the equal-tempered frequency of the MIDI key.
func PitchFromMIDI(key uint8) float64 {
	return A4 * math.Pow(2, (float64(key)-69)/12)
}

// OctaveShiftInto moves pitch by whole octaves until it is within [lo, hi].
// If the range is narrower than an octave and no octave fits, the pitch is
// clamped to the nearest bound. The second return value reports whether the
// result was reached by octave shifting alone.
func OctaveShiftInto(pitch, lo, hi float64) (float64, bool) {
	if pitch <= 0 || lo <= 0 || hi < lo {
		return pitch, false
	}
	for pitch < lo {
		pitch *= 2
	}
	for pitch > hi {
		pitch /= 2
	}
	if pitch >= lo && pitch <= hi {
		return pitch, true
	}
	if pitch < lo {
		return lo, false
	}
	return hi, false
}

package patterns

import "github.com/vsariola/mensura"

// pitches of the built-in catalogue, Hz
const (
	a3  = 220.00
	cs4 = 277.18
	d4  = 293.66
	e4  = 329.63
	f4  = 349.23
	fs4 = 369.99
	g4  = 392.00
	a4  = 440.00
	b4  = 493.88
	c5  = 523.25
	d5  = 587.33
	e5  = 659.26
)

const catalogueVelocity = 0.8

// line lays out the pitches back to back with the given durations. A zero
// pitch makes a rest.
func line(pitches []float64, durations ...float64) []mensura.Note {
	notes := make([]mensura.Note, len(pitches))
	t := 0.0
	for i, p := range pitches {
		d := durations[i%len(durations)]
		if p == 0 {
			notes[i] = mensura.Note{Duration: d, StartTime: t, IsRest: true}
		} else {
			notes[i] = mensura.Note{Pitch: p, Duration: d, Velocity: catalogueVelocity, StartTime: t}
		}
		t += d
	}
	return notes
}

func builtin(name string, typ mensura.PatternType, mode mensura.Mode, notes []mensura.Note, tags ...string) mensura.MusicalPattern {
	p := mensura.NewPattern(name, typ, mode, notes, tags...)
	p.Source = "built-in"
	return p
}

func catalogue() []mensura.MusicalPattern {
	return []mensura.MusicalPattern{
		// cadences
		builtin("dorian_clausula", mensura.CadencePattern, mensura.Dorian,
			line([]float64{a4, g4, f4, e4, d4}, 1, 0.5, 0.5, 1, 2), "clausula", "final"),
		builtin("dorian_leading_tone", mensura.CadencePattern, mensura.Dorian,
			line([]float64{e4, cs4, d4}, 1, 1, 2), "clausula", "musica_ficta"),
		builtin("hypodorian_clausula", mensura.CadencePattern, mensura.Hypodorian,
			line([]float64{f4, e4, d4}, 1, 1, 2), "clausula"),
		builtin("phrygian_clausula", mensura.CadencePattern, mensura.Phrygian,
			line([]float64{g4, f4, e4}, 1, 1, 2), "clausula", "semitone_descent"),
		builtin("lydian_clausula", mensura.CadencePattern, mensura.Lydian,
			line([]float64{g4, e4, f4}, 1, 1, 2), "clausula"),
		builtin("mixolydian_clausula", mensura.CadencePattern, mensura.Mixolydian,
			line([]float64{c5, a4, fs4, g4}, 1, 1, 1, 2), "clausula", "musica_ficta"),

		// ornaments
		builtin("trill_on_d", mensura.OrnamentPattern, mensura.Dorian,
			line([]float64{e4, d4, e4, d4, e4, d4}, 0.125), "trill"),
		builtin("mordent_on_a", mensura.OrnamentPattern, mensura.Dorian,
			line([]float64{a4, g4, a4}, 0.125, 0.125, 0.25), "mordent"),
		builtin("turn_on_f", mensura.OrnamentPattern, mensura.Dorian,
			line([]float64{g4, f4, e4, f4}, 0.125), "turn"),
		builtin("turn_on_e", mensura.OrnamentPattern, mensura.Phrygian,
			line([]float64{f4, e4, d4, e4}, 0.125), "turn"),
		builtin("groppo_on_d", mensura.OrnamentPattern, mensura.Dorian,
			line([]float64{e4, d4, cs4, d4, e4, d4, cs4, d4}, 0.125), "groppo"),
		builtin("tirata_d_e", mensura.OrnamentPattern, mensura.Dorian,
			line([]float64{d4, e4, f4, g4, a4, b4, c5, d5, e5}, 0.125), "tirata", "passaggio"),

		// dance rhythms
		builtin("pavane_dorian", mensura.PavaneRhythm, mensura.Dorian,
			line([]float64{d4, d4, e4, f4, e4, d4}, 1, 0.5, 0.5), "dance", "long_short_short"),
		builtin("pavane_mixolydian", mensura.PavaneRhythm, mensura.Mixolydian,
			line([]float64{g4, a4, b4, c5, b4, a4}, 1, 0.5, 0.5), "dance", "long_short_short"),
		builtin("galliard_cinque_pas", mensura.GalliardRhythm, mensura.Dorian,
			line([]float64{a4, g4, f4, e4, d4}, 1, 0.5, 0.5, 1.5, 0.5), "dance", "triple"),
		builtin("galliard_phrygian", mensura.GalliardRhythm, mensura.Phrygian,
			line([]float64{e4, f4, g4, f4, e4}, 1, 0.5, 0.5, 1.5, 0.5), "dance", "triple"),
		builtin("basse_danse_tenor", mensura.BasseDanseRhythm, mensura.Dorian,
			line([]float64{d4, f4, e4, d4}, 2), "dance", "cantus_firmus"),

		// isorhythm
		builtin("talea_dorian", mensura.IsorhythmicPattern, mensura.Dorian,
			line([]float64{d4, f4, e4, d4, a4, g4, f4, e4}, 1.5, 0.5, 1, 1), "talea", "color"),
		builtin("talea_phrygian", mensura.IsorhythmicPattern, mensura.Phrygian,
			line([]float64{e4, g4, f4, e4, b4, a4, g4, f4}, 1.5, 0.5, 1, 1), "talea", "color"),
		builtin("talea_lydian_hocket", mensura.IsorhythmicPattern, mensura.Lydian,
			line([]float64{f4, 0, a4, 0, c5, a4}, 1, 0.5), "talea", "hocket"),
		builtin("hypodorian_cantus", mensura.IsorhythmicPattern, mensura.Hypodorian,
			line([]float64{a3, d4, e4, f4, e4, d4}, 2, 1, 1), "talea"),
	}
}

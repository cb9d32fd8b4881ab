package patterns

import "github.com/vsariola/mensura"

var danceTypes = []mensura.PatternType{mensura.PavaneRhythm, mensura.GalliardRhythm, mensura.BasseDanseRhythm}

// FormTypes tells which pattern types suit each form.
var FormTypes = map[mensura.Form][]mensura.PatternType{
	mensura.Pavane:      {mensura.PavaneRhythm, mensura.CadencePattern},
	mensura.Galliard:    {mensura.GalliardRhythm, mensura.CadencePattern},
	mensura.BasseDanse:  {mensura.BasseDanseRhythm, mensura.CadencePattern},
	mensura.Isorhythmic: {mensura.IsorhythmicPattern, mensura.CadencePattern},
	mensura.Motet:       {mensura.IsorhythmicPattern, mensura.CadencePattern, mensura.OrnamentPattern},
	mensura.Chanson:     {mensura.CadencePattern, mensura.OrnamentPattern},
	mensura.Madrigal:    {mensura.CadencePattern, mensura.OrnamentPattern},
	mensura.Fantasia:    {mensura.OrnamentPattern, mensura.CadencePattern},
}

// InstrumentProfile lists the pattern types an instrument may play and the
// highest pattern complexity it handles.
type InstrumentProfile struct {
	Types         []mensura.PatternType
	MaxComplexity int
}

// InstrumentProfiles holds the profile of every built-in instrument.
var InstrumentProfiles = map[mensura.InstrumentType]InstrumentProfile{
	mensura.ProgrammableDrum:    {Types: append([]mensura.PatternType{mensura.CadencePattern}, danceTypes...), MaxComplexity: 2},
	mensura.MechanicalOrgan:     {Types: allTypes(), MaxComplexity: 3},
	mensura.ViolaOrganista:      {Types: allTypes(), MaxComplexity: 3},
	mensura.MechanicalTrumpeter: {Types: append([]mensura.PatternType{mensura.CadencePattern, mensura.OrnamentPattern}, danceTypes...), MaxComplexity: 2},
	mensura.MechanicalCarillon:  {Types: append([]mensura.PatternType{mensura.CadencePattern, mensura.IsorhythmicPattern}, danceTypes...), MaxComplexity: 2},
	mensura.MechanicalLute:      {Types: append([]mensura.PatternType{mensura.CadencePattern, mensura.OrnamentPattern}, danceTypes...), MaxComplexity: 2},
}

// simpleOrnaments are the only ornament kinds instruments below the highest
// complexity grade may play.
var simpleOrnaments = map[string]bool{"mordent": true, "turn": true}

func allTypes() []mensura.PatternType {
	return append([]mensura.PatternType{mensura.CadencePattern, mensura.OrnamentPattern, mensura.IsorhythmicPattern}, danceTypes...)
}

// InstrumentAccepts reports whether the instrument's profile admits the
// pattern. Unknown instruments accept nothing.
func InstrumentAccepts(t mensura.InstrumentType, p *mensura.MusicalPattern) bool {
	prof, ok := InstrumentProfiles[t]
	if !ok {
		return false
	}
	if !containsType(prof.Types, p.PatternType) || p.Complexity() > prof.MaxComplexity {
		return false
	}
	if p.PatternType == mensura.OrnamentPattern && prof.MaxComplexity < 3 {
		return simpleOrnaments[p.Subtype()]
	}
	return true
}

// Transitions is the successor table of the pattern-based composer: after a
// pattern of the key type, the next pattern must be of one of the listed
// types.
var Transitions = map[mensura.PatternType][]mensura.PatternType{
	mensura.CadencePattern:     append([]mensura.PatternType{mensura.OrnamentPattern}, danceTypes...),
	mensura.PavaneRhythm:       {mensura.CadencePattern},
	mensura.GalliardRhythm:     {mensura.CadencePattern},
	mensura.BasseDanseRhythm:   {mensura.CadencePattern},
	mensura.OrnamentPattern:    {mensura.CadencePattern},
	mensura.IsorhythmicPattern: {mensura.IsorhythmicPattern, mensura.CadencePattern},
}

// DanceTypes returns the dance rhythm pattern types.
func DanceTypes() []mensura.PatternType {
	return append([]mensura.PatternType(nil), danceTypes...)
}

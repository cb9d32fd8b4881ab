package patterns_test

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/patterns"
)

func TestBuiltinCatalogue(t *testing.T) {
	l := patterns.New()
	if l.Len() == 0 {
		t.Fatal("built-in catalogue is empty")
	}
	for _, p := range l.All() {
		for _, n := range p.Notes {
			if err := n.Validate(); err != nil {
				t.Fatalf("pattern %v has invalid note: %v", p.Name, err)
			}
		}
		if len(p.Rhythm) != len(p.Notes) {
			t.Fatalf("pattern %v rhythm profile has %v entries for %v notes", p.Name, len(p.Rhythm), len(p.Notes))
		}
	}
}

func TestByMode(t *testing.T) {
	l := patterns.New()
	for _, p := range l.ByMode(mensura.Phrygian) {
		if p.Mode != mensura.Phrygian {
			t.Fatalf("ByMode(phrygian) returned %v in mode %v", p.Name, p.Mode)
		}
	}
	if len(l.ByMode(mensura.Hypolydian)) != 0 {
		t.Fatal("there should be no hypolydian patterns in the catalogue")
	}
}

func TestByForm(t *testing.T) {
	l := patterns.New()
	got := l.ByForm(mensura.Pavane)
	if len(got) == 0 {
		t.Fatal("no patterns for pavane")
	}
	for _, p := range got {
		if p.PatternType != mensura.PavaneRhythm && p.PatternType != mensura.CadencePattern {
			t.Fatalf("pavane query returned pattern %v of type %v", p.Name, p.PatternType)
		}
	}
}

func TestForInstrumentExcludesComplexOrnaments(t *testing.T) {
	l := patterns.New()
	for _, p := range l.ForInstrument(mensura.MechanicalTrumpeter) {
		if p.PatternType == mensura.OrnamentPattern && p.Subtype() != "mordent" && p.Subtype() != "turn" {
			t.Fatalf("trumpeter got non-whitelisted ornament %v (%v)", p.Name, p.Subtype())
		}
		if p.Complexity() > 2 {
			t.Fatalf("trumpeter got too complex pattern %v", p.Name)
		}
	}
	organ := l.ForInstrument(mensura.MechanicalOrgan)
	found := false
	for _, p := range organ {
		if p.Subtype() == "trill" {
			found = true
		}
	}
	if !found {
		t.Fatal("organ should accept the trill")
	}
	for _, p := range l.ForInstrument(mensura.ProgrammableDrum) {
		if p.PatternType == mensura.OrnamentPattern || p.PatternType == mensura.IsorhythmicPattern {
			t.Fatalf("drum got pattern %v of type %v", p.Name, p.PatternType)
		}
	}
}

func TestByTags(t *testing.T) {
	l := patterns.New()
	got := l.ByTags("dance", "long_short_short")
	if len(got) != 2 {
		t.Fatalf("got %v patterns, expected 2", len(got))
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	l := patterns.NewEmpty()
	p := mensura.NewPattern("x", mensura.CadencePattern, mensura.Dorian, nil)
	if err := l.Add(p); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := l.Add(p); err == nil {
		t.Fatal("adding a duplicate name should fail")
	}
	if err := l.Add(mensura.MusicalPattern{PatternType: mensura.CadencePattern}); err == nil {
		t.Fatal("adding an unnamed pattern should fail")
	}
	if l.Len() != 1 {
		t.Fatalf("got %v patterns, expected 1", l.Len())
	}
}

func TestRandomLookupMiss(t *testing.T) {
	l := patterns.New()
	rng := rand.New(rand.NewSource(1))
	_, err := l.Random(rng, patterns.Filter{Mode: mensura.Hypolydian})
	if !errors.Is(err, patterns.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	p, err := l.Random(rng, patterns.Filter{Types: []mensura.PatternType{mensura.CadencePattern}})
	if err != nil || p.PatternType != mensura.CadencePattern {
		t.Fatalf("Random returned %+v, %v", p, err)
	}
}

func TestAdaptToModePreservesRhythm(t *testing.T) {
	l := patterns.New()
	p, ok := l.Get("pavane_dorian")
	if !ok {
		t.Fatal("pavane_dorian missing")
	}
	q := patterns.AdaptToMode(p, mensura.Phrygian)
	if q.Mode != mensura.Phrygian {
		t.Fatalf("got mode %v", q.Mode)
	}
	final := mensura.ModeTable[mensura.Phrygian].Final
	if math.Abs(q.Notes[0].Pitch-final) > 1e-9 {
		t.Fatalf("first note %v should land on the final %v", q.Notes[0].Pitch, final)
	}
	ratio := q.Notes[0].Pitch / p.Notes[0].Pitch
	for i := range p.Notes {
		if q.Notes[i].Duration != p.Notes[i].Duration || q.Notes[i].StartTime != p.Notes[i].StartTime {
			t.Fatalf("note %v rhythm changed", i)
		}
		if math.Abs(q.Notes[i].Pitch/p.Notes[i].Pitch-ratio) > 1e-9 {
			t.Fatalf("note %v transposed by a different ratio", i)
		}
	}
	if p.Notes[0].Pitch == q.Notes[0].Pitch {
		t.Fatal("the original pattern should not be modified")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	l := patterns.New()
	var buf bytes.Buffer
	if err := l.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	m, err := patterns.LoadYAML(&buf)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if m.Len() != l.Len() {
		t.Fatalf("got %v patterns back, expected %v", m.Len(), l.Len())
	}
	p, _ := m.Get("talea_lydian_hocket")
	if len(p.Notes) != 6 || !p.Notes[1].IsRest {
		t.Fatalf("hocket pattern lost its rests: %+v", p.Notes)
	}
}

package midifile_test

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/midifile"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func testScore() *mensura.Score {
	return &mensura.Score{
		Title:    "Pavane",
		TempoBPM: 90,
		Voices: []mensura.Voice{
			{Name: "soprano", Instrument: mensura.MechanicalOrgan, Notes: []mensura.Note{
				{Pitch: 440, Duration: 0.5, Velocity: 0.8},
				{Duration: 0.5, StartTime: 0.5, IsRest: true},
				{Pitch: 440, Duration: 0.5, Velocity: 0.8, StartTime: 1},
				{Pitch: 493.88, Duration: 1, Velocity: 0.6, StartTime: 1.5},
			}},
			{Name: "bass", Instrument: mensura.MechanicalLute, Notes: []mensura.Note{
				{Pitch: 110, Duration: 2.5, Velocity: 0.5},
			}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := midifile.Write(testScore(), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := midifile.Read(&buf, mensura.MechanicalCarillon)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Title != "Pavane" {
		t.Fatalf("got title %q, expected %q", got.Title, "Pavane")
	}
	if math.Abs(got.TempoBPM-90) > 1e-3 {
		t.Fatalf("got tempo %v, expected 90", got.TempoBPM)
	}
	if len(got.Voices) != 2 {
		t.Fatalf("got %v voices, expected 2", len(got.Voices))
	}
	original := testScore()
	for i, v := range got.Voices {
		o := original.Voices[i]
		if v.Name != o.Name || v.Instrument != o.Instrument {
			t.Fatalf("voice %d: got %v/%v, expected %v/%v", i, v.Name, v.Instrument, o.Name, o.Instrument)
		}
		sounding := o.Sounding()
		if len(v.Notes) != len(sounding) {
			t.Fatalf("voice %v: got %v notes, expected %v", v.Name, len(v.Notes), len(sounding))
		}
		for j, n := range v.Notes {
			e := sounding[j]
			if math.Abs(mensura.SemitonesFromA4(n.Pitch)-mensura.SemitonesFromA4(e.Pitch)) > 0.5 {
				t.Fatalf("voice %v note %d: got pitch %v, expected about %v", v.Name, j, n.Pitch, e.Pitch)
			}
			if math.Abs(n.StartTime-e.StartTime) > 1e-3 || math.Abs(n.Duration-e.Duration) > 1e-3 {
				t.Fatalf("voice %v note %d: got %v+%v, expected %v+%v", v.Name, j, n.StartTime, n.Duration, e.StartTime, e.Duration)
			}
		}
	}
}

func TestReadFileFallbackInstrument(t *testing.T) {
	score := testScore()
	score.Voices[1].Instrument = "hurdy_gurdy"
	path := filepath.Join(t.TempDir(), "song.mid")
	if err := midifile.WriteFile(score, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := midifile.ReadFile(path, mensura.MechanicalCarillon)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got.Voices[1].Instrument != mensura.MechanicalCarillon {
		t.Fatalf("got instrument %v, expected %v", got.Voices[1].Instrument, mensura.MechanicalCarillon)
	}
}

func TestReadDropsZeroLengthNotes(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(midifile.Resolution)
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(0, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 62, 100))
	tr.Add(midifile.Resolution, midi.NoteOff(0, 62))
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	got, err := midifile.Read(&buf, mensura.MechanicalOrgan)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Voices) != 1 || len(got.Voices[0].Notes) != 1 {
		t.Fatalf("got %+v, expected one voice with one note", got.Voices)
	}
	for _, n := range got.Voices[0].Notes {
		if err := n.Validate(); err != nil {
			t.Fatalf("invalid note read: %v", err)
		}
	}
	if k := mensura.MIDINote(got.Voices[0].Notes[0].Pitch); k != 62 {
		t.Fatalf("got key %v, expected 62", k)
	}
}

func TestWriteKeepsVeryShortNotes(t *testing.T) {
	score := &mensura.Score{
		TempoBPM: 60,
		Voices: []mensura.Voice{
			{Name: "soprano", Instrument: mensura.MechanicalOrgan, Notes: []mensura.Note{
				{Pitch: 440, Duration: 1e-5, Velocity: 0.8},
				{Pitch: 493.88, Duration: 1, Velocity: 0.8, StartTime: 1e-5},
			}},
		},
	}
	var buf bytes.Buffer
	if err := midifile.Write(score, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := midifile.Read(&buf, mensura.MechanicalOrgan)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Voices) != 1 || len(got.Voices[0].Notes) != 2 {
		t.Fatalf("got %+v, expected both notes to survive", got.Voices)
	}
	if d := got.Voices[0].Notes[0].Duration; d <= 0 {
		t.Fatalf("got duration %v, expected > 0", d)
	}
}

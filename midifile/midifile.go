// Package midifile converts scores to and from Standard MIDI Files. Each voice
// becomes one track on its own channel; the first track carries the tempo and
// the title. Pitches are rounded to the nearest equal-tempered key.
package midifile

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/vsariola/mensura"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution is the number of ticks per quarter note in written files.
const Resolution = 960

const defaultTempo = 120

type (
	timedMessage struct {
		tick uint32
		off  bool
		msg  []byte
	}

	midiNote struct {
		key, vel   uint8
		start, end uint32
	}

	parsedTrack struct {
		name, instrument string
		notes            []midiNote
	}

	pending struct {
		tick uint32
		vel  uint8
	}
)

// Write encodes the score as a format 1 Standard MIDI File.
func Write(score *mensura.Score, w io.Writer) error {
	tempo := score.TempoBPM
	if tempo <= 0 {
		tempo = defaultTempo
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName(score.Title))
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return fmt.Errorf("could not add conductor track: %w", err)
	}
	ticksPerSecond := tempo / 60 * Resolution
	for i, v := range score.Voices {
		ch := uint8(i % 16)
		var msgs []timedMessage
		for _, n := range v.Notes {
			if !n.Sounding() {
				continue
			}
			key := mensura.MIDINote(n.Pitch)
			vel := uint8(math.Max(1, math.Min(127, math.Round(n.Velocity*127))))
			on := uint32(math.Round(n.StartTime * ticksPerSecond))
			off := max(uint32(math.Round(n.End()*ticksPerSecond)), on+1)
			msgs = append(msgs, timedMessage{tick: on, msg: midi.NoteOn(ch, key, vel)})
			msgs = append(msgs, timedMessage{tick: off, off: true, msg: midi.NoteOff(ch, key)})
		}
		// note offs go first so that repeated keys retrigger
		sort.SliceStable(msgs, func(a, b int) bool {
			if msgs[a].tick != msgs[b].tick {
				return msgs[a].tick < msgs[b].tick
			}
			return msgs[a].off && !msgs[b].off
		})
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(v.Name))
		tr.Add(0, smf.MetaInstrument(string(v.Instrument)))
		last := uint32(0)
		for _, m := range msgs {
			tr.Add(m.tick-last, m.msg)
			last = m.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return fmt.Errorf("could not add track of voice %v: %w", v.Name, err)
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write MIDI file: %w", err)
	}
	return nil
}

// WriteFile writes the score to a .mid file.
func WriteFile(score *mensura.Score, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	if err := Write(score, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a Standard MIDI File. Tracks without notes are skipped, except
// that the first tempo and track name found become the tempo and title of the
// score. Voices without an instrument name get fallback as their instrument.
// Notes ending on the tick they start are dropped.
func Read(r io.Reader, fallback mensura.InstrumentType) (*mensura.Score, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("could not read MIDI file: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported MIDI time format %v", s.TimeFormat)
	}
	score := &mensura.Score{}
	var tracks []parsedTrack
	for _, track := range s.Tracks {
		var p parsedTrack
		open := map[uint8]pending{}
		tick := uint32(0)
		for _, ev := range track {
			tick += ev.Delta
			var ch, key, vel uint8
			var bpm float64
			var text string
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				if score.TempoBPM == 0 {
					score.TempoBPM = bpm
				}
			case ev.Message.GetMetaTrackName(&text):
				p.name = text
			case ev.Message.GetMetaInstrument(&text):
				p.instrument = text
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				open[key] = pending{tick: tick, vel: vel}
			case ev.Message.GetNoteEnd(&ch, &key):
				st, ok := open[key]
				if !ok {
					continue
				}
				delete(open, key)
				p.notes = append(p.notes, midiNote{key: key, vel: st.vel, start: st.tick, end: tick})
			}
		}
		if len(p.notes) == 0 {
			if score.Title == "" {
				score.Title = p.name
			}
			continue
		}
		tracks = append(tracks, p)
	}
	if score.TempoBPM == 0 {
		score.TempoBPM = defaultTempo
	}
	secondsPerTick := 60 / score.TempoBPM / float64(ticks.Ticks4th())
	constraints := mensura.DefaultConstraints()
	for i, p := range tracks {
		instr := mensura.InstrumentType(p.instrument)
		if _, ok := constraints[instr]; !ok {
			instr = fallback
		}
		name := p.name
		if name == "" {
			name = fmt.Sprintf("voice%d", i+1)
		}
		v := mensura.Voice{Name: name, Instrument: instr}
		if c, ok := constraints[instr]; ok {
			v.RangeLow, v.RangeHigh = c.PitchLow, c.PitchHigh
		}
		sort.SliceStable(p.notes, func(a, b int) bool { return p.notes[a].start < p.notes[b].start })
		for _, n := range p.notes {
			// zero length notes do not sound
			note, err := mensura.NewNote(mensura.PitchFromMIDI(n.key), float64(n.end-n.start)*secondsPerTick, float64(n.vel)/127, float64(n.start)*secondsPerTick, i)
			if err != nil {
				continue
			}
			v.Notes = append(v.Notes, note)
		}
		score.Voices = append(score.Voices, v)
	}
	return score, nil
}

// ReadFile reads a score from a .mid file.
func ReadFile(path string, fallback mensura.InstrumentType) (*mensura.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", path, err)
	}
	defer f.Close()
	return Read(f, fallback)
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/constraint"
	"github.com/vsariola/mensura/midifile"
	"github.com/vsariola/mensura/patterns"
	"gopkg.in/yaml.v3"
)

func isMIDI(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".mid" || ext == ".midi"
}

// loadScore reads a .json, .yml or .mid score. Voices of MIDI files without a
// known instrument name are played by the organ.
func loadScore(path string) (*mensura.Score, error) {
	if isMIDI(path) {
		return midifile.ReadFile(path, mensura.MechanicalOrgan)
	}
	return mensura.LoadScoreFile(path)
}

// writeScore writes the score to path in the format given by its extension, or
// as JSON to w if path is empty.
func writeScore(score *mensura.Score, path string, w io.Writer) error {
	if path == "" {
		b, err := mensura.MarshalScore(score)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
	}
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case isMIDI(path):
		return midifile.WriteFile(score, path)
	case ext == ".yml" || ext == ".yaml":
		return mensura.SaveYAML(score, path)
	default:
		return mensura.SaveJSON(score, path)
	}
}

func newValidator() (*constraint.Validator, error) {
	v := constraint.New()
	if cfg.ConstraintsFile != "" {
		if err := v.LoadFile(cfg.ConstraintsFile); err != nil {
			return nil, err
		}
		logger.Debug("loaded constraint overrides", "file", cfg.ConstraintsFile)
	}
	return v, nil
}

func newLibrary() (*patterns.Library, error) {
	if cfg.PatternsFile == "" {
		return patterns.New(), nil
	}
	f, err := os.Open(cfg.PatternsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open pattern catalogue: %w", err)
	}
	defer f.Close()
	return patterns.LoadYAML(f)
}

// parseAssignments turns "soprano=mechanical_organ,bass=mechanical_lute" into
// role assignments. An empty list gives the default SATB subset of n voices,
// all played by instr.
func parseAssignments(list string, n int, instr string) ([]mensura.Assignment, error) {
	if list == "" {
		return mensura.DefaultAssignments(n, mensura.InstrumentType(instr))
	}
	var ret []mensura.Assignment
	for _, part := range strings.Split(list, ",") {
		role, instrument, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, expected role=instrument", part)
		}
		ret = append(ret, mensura.Assignment{Voice: role, Role: mensura.Role(role), Instrument: mensura.InstrumentType(instrument)})
	}
	return ret, nil
}

// parseSubstitutions turns "tenor=mechanical_lute,bass=programmable_drum"
// into a voice to instrument map.
func parseSubstitutions(list string) (map[string]mensura.InstrumentType, error) {
	if list == "" {
		return nil, nil
	}
	ret := map[string]mensura.InstrumentType{}
	for _, part := range strings.Split(list, ",") {
		voice, instrument, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("invalid substitution %q, expected voice=instrument", part)
		}
		ret[voice] = mensura.InstrumentType(instrument)
	}
	return ret, nil
}

func writeYAML(v any, w io.Writer) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal yaml: %w", err)
	}
	_, err = w.Write(b)
	return err
}

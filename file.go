package mensura

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalScore encodes the score as indented JSON.
func MarshalScore(s *Score) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal score %q: %w", s.Title, err)
	}
	return b, nil
}

// UnmarshalScore decodes a score from JSON, falling back to YAML if the data
// is not valid JSON. Every note is validated while decoding.
func UnmarshalScore(data []byte) (*Score, error) {
	var s Score
	errJSON := json.Unmarshal(data, &s)
	if errJSON == nil {
		return &s, nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, fmt.Errorf("the score could not be parsed as .json: %w", errJSON)
	}
	s = Score{}
	if errYaml := yaml.Unmarshal(data, &s); errYaml != nil {
		return nil, fmt.Errorf("the score could not be parsed as .json (%v) or .yml (%w)", errJSON, errYaml)
	}
	return &s, nil
}

// SaveJSON writes the score to path as JSON.
func SaveJSON(s *Score, path string) error {
	b, err := MarshalScore(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

// SaveYAML writes the score to path as YAML.
func SaveYAML(s *Score, path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not marshal score %q: %w", s.Title, err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

// LoadJSON reads a JSON score from path.
func LoadJSON(path string) (*Score, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %v: %w", path, err)
	}
	var s Score
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", path, err)
	}
	return &s, nil
}

// LoadScoreFile reads a score from a .json, .yml or .yaml file. Files with
// other extensions are tried as JSON first and then as YAML.
func LoadScoreFile(path string) (*Score, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".yml", ".yaml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read file %v: %w", path, err)
		}
		var s Score
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("could not parse %v: %w", path, err)
		}
		return &s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %v: %w", path, err)
	}
	return UnmarshalScore(b)
}

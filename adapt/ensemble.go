package adapt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vsariola/mensura"
)

// ConvertToEnsemble flattens the score into one event list per instrument
// slug. The whole score is squeezed into one measure and repeated measures
// times; events of the drum are percussive, all others pitched. A
// non-positive beatsPerMeasure means the default of the score's form.
func ConvertToEnsemble(score *mensura.Score, measures, beatsPerMeasure int) *mensura.Ensemble {
	if beatsPerMeasure <= 0 {
		beatsPerMeasure = score.Form.BeatsPerMeasure()
	}
	e := &mensura.Ensemble{
		TempoBPM:        score.TempoBPM,
		Measures:        measures,
		BeatsPerMeasure: beatsPerMeasure,
		Score:           map[string][]mensura.Event{},
	}
	total := score.Duration()
	measureDur := e.MeasureDuration()
	if total <= 0 || measureDur <= 0 || measures <= 0 {
		return e
	}
	for i := range score.Voices {
		v := &score.Voices[i]
		slug := string(v.Instrument)
		kind := mensura.Pitched
		if v.Instrument.Percussive() {
			kind = mensura.Percussive
		}
		events := e.Score[slug]
		for m := 0; m < measures; m++ {
			for _, n := range v.Notes {
				if !n.Sounding() {
					continue
				}
				events = append(events, mensura.Event{
					TimeS:       n.StartTime/total*measureDur + float64(m)*measureDur,
					FrequencyHz: n.Pitch,
					Intensity:   n.Velocity,
					Kind:        kind,
				})
			}
		}
		e.Score[slug] = events
	}
	for _, events := range e.Score {
		sort.SliceStable(events, func(i, j int) bool { return events[i].TimeS < events[j].TimeS })
	}
	return e
}

type (
	// DemoRequest describes an ensemble demo: the score to convert, the
	// optional renderer and where to put the files.
	DemoRequest struct {
		Score           *mensura.Score
		Name            string
		Measures        int
		BeatsPerMeasure int
		Renderer        mensura.AudioRenderer
		OutputDir       string
		SampleRate      int
	}

	DemoResult struct {
		Ensemble     *mensura.Ensemble
		EnsemblePath string
		AudioPath    string
		Warnings     []string
	}
)

// GenerateEnsembleDemo converts the score, renders it if a renderer is given
// and writes the ensemble JSON next to the audio. Rendering failures become
// warnings; only failing to write the JSON is an error.
func (p *Pipeline) GenerateEnsembleDemo(req DemoRequest) (*DemoResult, error) {
	if req.Score == nil {
		return nil, fmt.Errorf("no score given")
	}
	name := req.Name
	if name == "" {
		name = "ensemble"
	}
	if req.SampleRate <= 0 {
		req.SampleRate = mensura.DefaultAudioFormat.SampleRate
	}
	if req.OutputDir == "" {
		req.OutputDir = "."
	}
	if err := os.MkdirAll(req.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create output directory %v: %w", req.OutputDir, err)
	}
	res := &DemoResult{Ensemble: ConvertToEnsemble(req.Score, req.Measures, req.BeatsPerMeasure)}
	if res.Ensemble.NumEvents() == 0 {
		res.Warnings = append(res.Warnings, "ensemble has no events")
	}
	if req.Renderer != nil {
		path, err := req.Renderer.RenderEnsemble(res.Ensemble, req.SampleRate, filepath.Join(req.OutputDir, name+".wav"))
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("rendering failed: %v", err))
		} else {
			res.AudioPath = path
		}
	}
	res.EnsemblePath = filepath.Join(req.OutputDir, name+".json")
	if err := res.Ensemble.SaveJSON(res.EnsemblePath); err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		p.logger.Warn("ensemble demo", "name", name, "warning", w)
	}
	p.logger.Info("ensemble demo written", "path", res.EnsemblePath, "events", res.Ensemble.NumEvents())
	return res, nil
}

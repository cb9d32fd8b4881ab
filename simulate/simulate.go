// Package simulate provides parameter-table models of the mechanical
// instruments. They stand in for the physical simulators behind
// mensura.InstrumentSimulator: each model loads its parameters and produces
// an idealized trace of playable frequencies and note intervals.
package simulate

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/vsariola/mensura"
	"gopkg.in/yaml.v3"
)

type (
	// Params is the parameter record of one instrument model.
	Params struct {
		Model         string  `yaml:"model"` // wind, struck or string
		LowHz         float64 `yaml:"low_hz"`
		HighHz        float64 `yaml:"high_hz"`
		MinIntervalS  float64 `yaml:"min_interval_s"`
		Jitter        float64 `yaml:"jitter"`
		Strikes       int     `yaml:"strikes"`
		PressureKPa   float64 `yaml:"pressure_kpa,omitempty"`
		ImpactEnergyJ float64 `yaml:"impact_energy_j,omitempty"`
		Amplitude     float64 `yaml:"amplitude,omitempty"`
		DecayS        float64 `yaml:"decay_s,omitempty"`
	}

	// Model is the simulator of one instrument.
	Model struct {
		Instrument mensura.InstrumentType
		params     Params
	}
)

//go:embed params.yml
var defaultParamsYaml []byte

// DefaultParams returns the built-in parameter table.
func DefaultParams() map[mensura.InstrumentType]Params {
	var ret map[mensura.InstrumentType]Params
	if err := yaml.Unmarshal(defaultParamsYaml, &ret); err != nil {
		panic(fmt.Errorf("failed to unmarshal simulator parameters: %w", err))
	}
	return ret
}

// LoadParams reads a parameter table from a YAML file and merges it over the
// built-in one.
func LoadParams(path string) (map[mensura.InstrumentType]Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read simulator parameters %v: %w", path, err)
	}
	ret := DefaultParams()
	var raw map[mensura.InstrumentType]yaml.Node
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("could not parse simulator parameters %v: %w", path, err)
	}
	for k, node := range raw {
		p := ret[k]
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("could not parse simulator parameters of %v: %w", k, err)
		}
		ret[k] = p
	}
	return ret, nil
}

// Simulators returns one model per instrument of the table.
func Simulators(table map[mensura.InstrumentType]Params) map[mensura.InstrumentType]mensura.InstrumentSimulator {
	ret := make(map[mensura.InstrumentType]mensura.InstrumentSimulator, len(table))
	for k, p := range table {
		ret[k] = &Model{Instrument: k, params: p}
	}
	return ret
}

// LoadParameters returns the parameters of the model as a flat map.
func (m *Model) LoadParameters() (mensura.SimulationParams, error) {
	p := m.params
	if p.LowHz <= 0 || p.HighHz <= p.LowHz {
		return nil, fmt.Errorf("%v: invalid frequency range %v-%v Hz", m.Instrument, p.LowHz, p.HighHz)
	}
	if p.MinIntervalS <= 0 || p.Strikes <= 0 {
		return nil, fmt.Errorf("%v: min_interval_s and strikes should be positive", m.Instrument)
	}
	ret := mensura.SimulationParams{
		"low_hz":         p.LowHz,
		"high_hz":        p.HighHz,
		"min_interval_s": p.MinIntervalS,
		"jitter":         p.Jitter,
		"strikes":        float64(p.Strikes),
	}
	switch p.Model {
	case "wind":
		ret["pressure_kpa"] = p.PressureKPa
	case "struck":
		ret["impact_energy_j"] = p.ImpactEnergyJ
	case "string":
		ret["amplitude"] = p.Amplitude
		ret["decay_s"] = p.DecayS
	default:
		return nil, fmt.Errorf("%v: unknown model %q", m.Instrument, p.Model)
	}
	return ret, nil
}

// Simulate produces a trace: every semitone from the low frequency limit up
// to the high limit, which is always included, and a sequence of strokes
// whose intervals are the minimum interval stretched by a random jitter. The
// same seed gives the same trace.
func (m *Model) Simulate(params mensura.SimulationParams, seed int64) (*mensura.SimulationTrace, error) {
	for _, key := range []string{"low_hz", "high_hz", "min_interval_s", "jitter", "strikes"} {
		if _, ok := params[key]; !ok {
			return nil, fmt.Errorf("%v: missing parameter %v", m.Instrument, key)
		}
	}
	rng := rand.New(rand.NewSource(seed))
	tr := &mensura.SimulationTrace{}
	lo, hi := params["low_hz"], params["high_hz"]
	for k := 0; ; k++ {
		f := mensura.Transpose(lo, float64(k))
		if f >= hi {
			break
		}
		tr.IdealFrequencyHz = append(tr.IdealFrequencyHz, f)
	}
	tr.IdealFrequencyHz = append(tr.IdealFrequencyHz, hi)
	t := 0.0
	strikes := int(params["strikes"])
	for i := 0; i < strikes; i++ {
		iv := params["min_interval_s"] * (1 + params["jitter"]*rng.Float64())
		tr.IdealTimesS = append(tr.IdealTimesS, t)
		tr.IdealIntervalsS = append(tr.IdealIntervalsS, iv)
		t += iv
		if p, ok := params["pressure_kpa"]; ok {
			tr.PressureKPa = append(tr.PressureKPa, p*(1+0.05*(rng.Float64()-0.5)))
		}
		if e, ok := params["impact_energy_j"]; ok {
			tr.ImpactEnergyJ = append(tr.ImpactEnergyJ, e*(0.9+0.2*rng.Float64()))
		}
		if a, ok := params["amplitude"]; ok {
			tr.Amplitude = append(tr.Amplitude, a*math.Exp(-iv/params["decay_s"]))
		}
	}
	return tr, nil
}

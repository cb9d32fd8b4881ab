package simulate_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vsariola/mensura"
	"github.com/vsariola/mensura/simulate"
)

func TestDefaultParamsCoverInstruments(t *testing.T) {
	table := simulate.DefaultParams()
	constraints := mensura.DefaultConstraints()
	for _, instr := range mensura.Instruments {
		p, ok := table[instr]
		if !ok {
			t.Fatalf("no simulator parameters for %v", instr)
		}
		c := constraints[instr]
		if p.LowHz != c.PitchLow || p.HighHz != c.PitchHigh {
			t.Fatalf("%v: simulated range %v-%v, expected %v-%v", instr, p.LowHz, p.HighHz, c.PitchLow, c.PitchHigh)
		}
	}
}

func TestSimulate(t *testing.T) {
	for instr, sim := range simulate.Simulators(simulate.DefaultParams()) {
		params, err := sim.LoadParameters()
		if err != nil {
			t.Fatalf("%v: LoadParameters failed: %v", instr, err)
		}
		a, err := sim.Simulate(params, 3)
		if err != nil {
			t.Fatalf("%v: Simulate failed: %v", instr, err)
		}
		b, _ := sim.Simulate(params, 3)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%v: same seed gave different traces", instr)
		}
		f := a.IdealFrequencyHz
		if f[0] != params["low_hz"] || f[len(f)-1] != params["high_hz"] {
			t.Fatalf("%v: frequencies span %v-%v, expected %v-%v", instr, f[0], f[len(f)-1], params["low_hz"], params["high_hz"])
		}
		for _, iv := range a.IdealIntervalsS {
			if iv < params["min_interval_s"] {
				t.Fatalf("%v: interval %v below the minimum", instr, iv)
			}
		}
		if len(a.PressureKPa)+len(a.ImpactEnergyJ)+len(a.Amplitude) == 0 {
			t.Fatalf("%v: trace has no model-specific channel", instr)
		}
	}
}

func TestSimulateMissingParameter(t *testing.T) {
	sim := simulate.Simulators(simulate.DefaultParams())[mensura.MechanicalOrgan]
	if _, err := sim.Simulate(mensura.SimulationParams{"low_hz": 100}, 1); err == nil {
		t.Fatal("expected an error for missing parameters")
	}
}

func TestLoadParamsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yml")
	if err := os.WriteFile(path, []byte("mechanical_lute:\n  high_hz: 800\n"), 0644); err != nil {
		t.Fatal(err)
	}
	table, err := simulate.LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}
	if got := table[mensura.MechanicalLute]; got.HighHz != 800 || got.LowHz != 82.41 || got.Model != "string" {
		t.Fatalf("got %+v", got)
	}
}

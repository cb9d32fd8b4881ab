package adapt

import (
	"errors"
	"fmt"

	"github.com/viterin/vek"
	"github.com/vsariola/mensura"
)

// SimulationError is a hard disagreement between a voice and the simulated
// instrument playing it.
type SimulationError struct {
	Voice      string
	Instrument mensura.InstrumentType
	Reason     string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("voice %s on %s: %s", e.Voice, e.Instrument, e.Reason)
}

// SimulationReport lists the voices checked against a simulator and the soft
// findings.
type SimulationReport struct {
	Checked  []string
	Warnings []string
	Traces   map[mensura.InstrumentType]*mensura.SimulationTrace
}

// ValidateWithSimulation runs the simulator of each voice's instrument once
// and compares: the pitch span of the voice must lie within the simulated
// frequencies (an error otherwise), and the shortest note should not be
// shorter than the shortest simulated interval (a warning otherwise). Voices
// without a simulator are skipped with a warning. All errors are joined.
func ValidateWithSimulation(score *mensura.Score, sims map[mensura.InstrumentType]mensura.InstrumentSimulator, seed int64) (*SimulationReport, error) {
	report := &SimulationReport{Traces: map[mensura.InstrumentType]*mensura.SimulationTrace{}}
	var errs []error
	for i := range score.Voices {
		v := &score.Voices[i]
		sim, ok := sims[v.Instrument]
		if !ok {
			report.Warnings = append(report.Warnings, fmt.Sprintf("voice %s: no simulator for %s", v.Name, v.Instrument))
			continue
		}
		trace, ok := report.Traces[v.Instrument]
		if !ok {
			params, err := sim.LoadParameters()
			if err != nil {
				errs = append(errs, fmt.Errorf("could not load parameters of %s: %w", v.Instrument, err))
				continue
			}
			trace, err = sim.Simulate(params, seed)
			if err != nil {
				errs = append(errs, fmt.Errorf("could not simulate %s: %w", v.Instrument, err))
				continue
			}
			report.Traces[v.Instrument] = trace
		}
		report.Checked = append(report.Checked, v.Name)
		pitches := v.Pitches()
		if len(pitches) == 0 {
			continue
		}
		if f := trace.IdealFrequencyHz; len(f) > 0 {
			lo, hi := vek.Min(f), vek.Max(f)
			if plo, phi := vek.Min(pitches), vek.Max(pitches); plo < lo || phi > hi {
				errs = append(errs, &SimulationError{
					Voice:      v.Name,
					Instrument: v.Instrument,
					Reason:     fmt.Sprintf("pitch span %.2f-%.2f Hz outside simulated %.2f-%.2f Hz", plo, phi, lo, hi),
				})
			}
		}
		if iv := trace.IdealIntervalsS; len(iv) > 0 {
			shortest := vek.Min(iv)
			if d := vek.Min(soundingDurations(v)); d < shortest {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("voice %s: shortest note %.3f s is shorter than the simulated interval %.3f s", v.Name, d, shortest))
			}
		}
	}
	return report, errors.Join(errs...)
}

func soundingDurations(v *mensura.Voice) []float64 {
	ret := make([]float64, 0, len(v.Notes))
	for _, n := range v.Notes {
		if n.Sounding() {
			ret = append(ret, n.Duration)
		}
	}
	return ret
}

package mensura

type (
	// SimulationParams is the opaque parameter set of a physical instrument
	// model, as loaded by the model itself.
	SimulationParams map[string]float64

	// SimulationTrace is the numeric output of one simulator run. All fields
	// are optional; which ones are filled depends on the instrument: wind
	// instruments report pressure, struck instruments impact energy, and
	// string instruments amplitude.
	SimulationTrace struct {
		IdealFrequencyHz []float64 `json:"ideal_frequency_hz,omitempty" yaml:"ideal_frequency_hz,omitempty"`
		IdealTimesS      []float64 `json:"ideal_times_s,omitempty" yaml:"ideal_times_s,omitempty"`
		IdealIntervalsS  []float64 `json:"ideal_intervals_s,omitempty" yaml:"ideal_intervals_s,omitempty"`
		PressureKPa      []float64 `json:"pressure_kpa,omitempty" yaml:"pressure_kpa,omitempty"`
		ImpactEnergyJ    []float64 `json:"impact_energy_j,omitempty" yaml:"impact_energy_j,omitempty"`
		Amplitude        []float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	}

	// InstrumentSimulator is a physical model of one mechanical instrument.
	// The adaptation layer only depends on this interface.
	InstrumentSimulator interface {
		LoadParameters() (SimulationParams, error)
		Simulate(params SimulationParams, seed int64) (*SimulationTrace, error)
	}
)

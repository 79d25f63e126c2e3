package plant

import (
	"math"

	"github.com/inference-sim/plant-sim/sim"
)

// Normal parameterizes a normal distribution truncated at zero.
type Normal struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// Config holds every constant of the plant model. The YAML tags let the CLI
// override any subset of DefaultConfig from a file.
type Config struct {
	// Restockers is the size of the shared restocking crew.
	Restockers int `yaml:"restockers"`
	// MaterialCapacity is the raw material a station holds after a restock.
	MaterialCapacity int `yaml:"material_capacity"`

	ProcessTime Normal `yaml:"process_time"`
	RestockTime Normal `yaml:"restock_time"`

	RepairMean  float64 `yaml:"repair_mean"`  // mean of the exponential repair time
	ArrivalMean float64 `yaml:"arrival_mean"` // mean product inter-arrival time

	// RejectProbability is the chance a finished product fails final inspection.
	RejectProbability float64 `yaml:"reject_probability"`

	// FailureCheckInterval: a station draws its failure trial only when its
	// processed count is a multiple of this value.
	FailureCheckInterval int `yaml:"failure_check_interval"`

	// FailureProbabilities has one entry per station. Stations 0..n-3 are
	// visited in order; the last two are load-balanced.
	FailureProbabilities []float64 `yaml:"failure_probabilities"`
}

// DefaultConfig returns the six-station line.
func DefaultConfig() Config {
	return Config{
		Restockers:           3,
		MaterialCapacity:     25,
		ProcessTime:          Normal{Mean: 4, StdDev: 1},
		RestockTime:          Normal{Mean: 2, StdDev: 0.5},
		RepairMean:           3,
		ArrivalMean:          3,
		RejectProbability:    0.05,
		FailureCheckInterval: 5,
		FailureProbabilities: []float64{0.02, 0.01, 0.05, 0.15, 0.07, 0.06},
	}
}

// NumStations returns the number of stations on the line.
func (c Config) NumStations() int {
	return len(c.FailureProbabilities)
}

// Validate reports the first invalid parameter as a *sim.ConfigError.
func (c Config) Validate() error {
	if c.Restockers < 1 {
		return sim.NewConfigError("restockers", "must be >= 1, got %d", c.Restockers)
	}
	if c.MaterialCapacity < 1 {
		return sim.NewConfigError("material_capacity", "must be >= 1, got %d", c.MaterialCapacity)
	}
	if err := c.ProcessTime.validate("process_time"); err != nil {
		return err
	}
	if err := c.RestockTime.validate("restock_time"); err != nil {
		return err
	}
	if !finite(c.RepairMean) || c.RepairMean < 0 {
		return sim.NewConfigError("repair_mean", "must be >= 0, got %v", c.RepairMean)
	}
	if !finite(c.ArrivalMean) || c.ArrivalMean <= 0 {
		return sim.NewConfigError("arrival_mean", "must be > 0, got %v", c.ArrivalMean)
	}
	if !isProbability(c.RejectProbability) {
		return sim.NewConfigError("reject_probability", "must be in [0, 1], got %v", c.RejectProbability)
	}
	if c.FailureCheckInterval < 1 {
		return sim.NewConfigError("failure_check_interval", "must be >= 1, got %d", c.FailureCheckInterval)
	}
	if len(c.FailureProbabilities) == 0 {
		return sim.NewConfigError("failure_probabilities", "station list is empty")
	}
	if len(c.FailureProbabilities) < 2 {
		return sim.NewConfigError("failure_probabilities", "need at least the two load-balanced stations, got %d", len(c.FailureProbabilities))
	}
	for i, p := range c.FailureProbabilities {
		if !isProbability(p) {
			return sim.NewConfigError("failure_probabilities", "station %d: must be in [0, 1], got %v", i, p)
		}
	}
	return nil
}

func (n Normal) validate(field string) error {
	if !finite(n.Mean) || !finite(n.StdDev) || n.StdDev < 0 {
		return sim.NewConfigError(field, "needs finite mean and stddev >= 0, got %+v", n)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

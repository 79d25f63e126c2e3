package replication

import (
	"math"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/plant"
	"github.com/inference-sim/plant-sim/sim/trace"
)

const (
	// DefaultHorizon is the virtual-time length of one replication.
	DefaultHorizon = 5000.0
	// DefaultReplications is the number of independent replications per batch.
	DefaultReplications = 100
	// DefaultSeed seeds the batch when the caller gives none.
	DefaultSeed = int64(42)
)

// Options configures a batch of replications.
type Options struct {
	Replications int
	Horizon      float64
	Seed         int64
	Plant        plant.Config
	TraceLevel   trace.TraceLevel
	// OnTrace, when set and tracing is enabled, receives each replication's
	// decision trace after the replication ends.
	OnTrace func(index int, st *trace.SimulationTrace)
}

// DefaultOptions returns 100 replications of 5000 time units with seed 42.
func DefaultOptions() Options {
	return Options{
		Replications: DefaultReplications,
		Horizon:      DefaultHorizon,
		Seed:         DefaultSeed,
		Plant:        plant.DefaultConfig(),
		TraceLevel:   trace.TraceLevelNone,
	}
}

// Validate reports the first invalid option as a *sim.ConfigError.
func (o Options) Validate() error {
	if o.Replications < 0 {
		return sim.NewConfigError("replications", "must be >= 0, got %d", o.Replications)
	}
	if math.IsNaN(o.Horizon) || math.IsInf(o.Horizon, 0) || o.Horizon < 0 {
		return sim.NewConfigError("horizon", "must be a finite non-negative number, got %v", o.Horizon)
	}
	if !trace.IsValidTraceLevel(string(o.TraceLevel)) {
		return sim.NewConfigError("trace_level", "unknown level %q", o.TraceLevel)
	}
	return o.Plant.Validate()
}

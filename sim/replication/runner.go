// Package replication runs independent replications of the plant and turns
// each one into a Record.
package replication

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/plant"
	"github.com/inference-sim/plant-sim/sim/trace"
)

// Runner executes a batch of replications.
type Runner struct {
	opts Options
}

// NewRunner validates opts; a configuration error is reported before any
// replication runs.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Runner{opts: opts}, nil
}

// Options returns the validated options of the batch.
func (r *Runner) Options() Options {
	return r.opts
}

// Records lazily yields one record per replication, in index order. The
// sequence is finite and restartable: ranging over it again replays the
// batch bit for bit. An invariant violation stops the sequence after
// yielding the error.
func (r *Runner) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		rngs := sim.NewPartitionedRNG(sim.NewSimulationKey(r.opts.Seed))
		for i := 0; i < r.opts.Replications; i++ {
			rec, err := r.run(i, rngs)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// RunAll collects every record, stopping at the first error.
func (r *Runner) RunAll() ([]Record, error) {
	records := make([]Record, 0, r.opts.Replications)
	for rec, err := range r.Records() {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// RunOne runs replication index on its own. It yields the same record as the
// index-th element of Records.
func (r *Runner) RunOne(index int) (Record, error) {
	if index < 0 {
		return Record{}, sim.NewConfigError("replication", "index must be >= 0, got %d", index)
	}
	return r.run(index, sim.NewPartitionedRNG(sim.NewSimulationKey(r.opts.Seed)))
}

func (r *Runner) run(index int, rngs *sim.PartitionedRNG) (Record, error) {
	s, err := sim.NewSimulator(r.opts.Horizon)
	if err != nil {
		return Record{}, err
	}

	var st *trace.SimulationTrace
	if r.opts.TraceLevel.Enabled() {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: r.opts.TraceLevel})
	}

	pl, err := plant.New(s, r.opts.Plant, rngs.ForSubsystem(sim.SubsystemReplication(index)), st)
	if err != nil {
		return Record{}, err
	}
	pl.Start()
	if err := s.Run(); err != nil {
		return Record{}, fmt.Errorf("replication %d: %w", index, err)
	}
	pl.CollectQueueStats()

	rec := Derive(index, r.opts.Seed, r.opts.Horizon, pl.Stats, s.Dispatched)
	logrus.Infof("replication %d: completed=%d rejected=%d defect_rate=%.4f failures=%d avg_repair=%.3f events=%d",
		index, rec.CompletedCount, rec.RejectedCount, rec.DefectRate, pl.Stats.TotalFailures(), rec.AvgRepairTime, rec.Events)
	if st != nil && r.opts.OnTrace != nil {
		r.opts.OnTrace(index, st)
	}
	return rec, nil
}

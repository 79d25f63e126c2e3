// Package plant models the manufacturing line on top of the sim kernel:
// work stations, products and the arrival process of one replication.
package plant

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/trace"
)

// Plant is the composition root of one replication. It owns the stations,
// the shared restocking crew, the arrival process and the statistics.
type Plant struct {
	Sim        *sim.Simulator
	Restockers *sim.Resource
	Stations   []*WorkStation
	Stats      *Stats
	// Trace receives routing, failure and restock records; nil disables it.
	Trace *trace.SimulationTrace

	cfg          Config
	rng          *rand.Rand
	productCount int
}

// New builds a plant bound to s. Every random draw of the replication comes
// from rng, in execution order.
func New(s *sim.Simulator, cfg Config, rng *rand.Rand, tr *trace.SimulationTrace) (*Plant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil || rng == nil {
		return nil, sim.NewConfigError("plant", "needs a simulator and a random generator")
	}
	restockers, err := sim.NewResource(s, "restockers", cfg.Restockers)
	if err != nil {
		return nil, err
	}
	pl := &Plant{
		Sim:        s,
		Restockers: restockers,
		Stats:      NewStats(cfg.NumStations()),
		Trace:      tr,
		cfg:        cfg,
		rng:        rng,
	}
	pl.Stations = make([]*WorkStation, cfg.NumStations())
	for i := range pl.Stations {
		ws, err := newWorkStation(pl, i)
		if err != nil {
			return nil, err
		}
		pl.Stations[i] = ws
	}
	return pl, nil
}

// Start spawns the arrival process. It runs until the horizon ends the
// replication.
func (pl *Plant) Start() {
	pl.Sim.Spawn("arrivals", pl.generateProducts)
}

// CollectQueueStats copies the queueing time of every station and of the
// restocking crew into Stats. Call it once the replication has run.
func (pl *Plant) CollectQueueStats() {
	for i, ws := range pl.Stations {
		pl.Stats.QueueWait[i] = ws.Resource.WaitTime
	}
	pl.Stats.RestockQueueWait = pl.Restockers.WaitTime
}

// generateProducts waits Exponential(arrival mean) and spawns a product, forever.
func (pl *Plant) generateProducts(p *sim.Process) {
	p.Timeout(exponential(pl.rng, pl.cfg.ArrivalMean), func() {
		pl.productCount++
		pl.Stats.Arrived++
		pr := newProduct(pl, pl.productCount)
		logrus.Debugf("[t %010.3f] %s arrives", p.Now(), pr.Name())
		pl.Sim.Spawn(pr.Name(), pr.run)
		pl.generateProducts(p)
	})
}

package plant

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/trace"
)

// WorkStation is one station of the line: a single processing slot, a raw
// material bin and a fixed failure probability. Its state is mutated only by
// the processes it serves.
type WorkStation struct {
	ID                 int
	RawMaterial        int
	ProcessedCount     int
	FailureProbability float64
	Resource           *sim.Resource

	plant *Plant
}

func newWorkStation(pl *Plant, id int) (*WorkStation, error) {
	res, err := sim.NewResource(pl.Sim, fmt.Sprintf("station_%d", id), 1)
	if err != nil {
		return nil, err
	}
	return &WorkStation{
		ID:                 id,
		RawMaterial:        pl.cfg.MaterialCapacity,
		FailureProbability: pl.cfg.FailureProbabilities[id],
		Resource:           res,
		plant:              pl,
	}, nil
}

// Process handles one item on behalf of process p and continues with done
// once the station slot has been released:
//
//  1. acquire the station slot
//  2. restock while the bin is empty
//  3. take one unit of material and process for max(0, N(4, 1))
//  4. every FailureCheckInterval items, maybe break down and repair
//  5. release the slot, on the failure path too
func (w *WorkStation) Process(p *sim.Process, item *Product, done func()) {
	p.Hold(w.Resource, func(release func()) {
		w.ensureMaterial(p, func() {
			w.take(p, item, release)
		})
	}, done)
}

func (w *WorkStation) take(p *sim.Process, item *Product, release func()) {
	pl := w.plant
	w.RawMaterial--
	processTime := pl.cfg.ProcessTime.Sample(pl.rng)
	p.Timeout(processTime, func() {
		w.ProcessedCount++
		pl.Stats.Busy[w.ID] += processTime
		logrus.Debugf("[t %010.3f] station %d processed product %d in %.3f", p.Now(), w.ID, item.ID, processTime)

		if w.ProcessedCount%pl.cfg.FailureCheckInterval == 0 && bernoulli(pl.rng, w.FailureProbability) {
			w.fail(p, release)
			return
		}
		release()
	})
}

func (w *WorkStation) fail(p *sim.Process, release func()) {
	pl := w.plant
	pl.Stats.Failures[w.ID]++
	repairTime := exponential(pl.rng, pl.cfg.RepairMean)
	pl.Stats.RepairTimes = append(pl.Stats.RepairTimes, repairTime)
	pl.Trace.RecordFailure(trace.FailureRecord{
		StationID:      w.ID,
		Clock:          p.Now(),
		ProcessedCount: w.ProcessedCount,
		RepairTime:     repairTime,
	})
	logrus.Debugf("[t %010.3f] station %d failed after %d items, repair %.3f", p.Now(), w.ID, w.ProcessedCount, repairTime)
	p.Timeout(repairTime, release)
}

// ensureMaterial loops until the bin holds material, restocking each time it
// finds it empty.
func (w *WorkStation) ensureMaterial(p *sim.Process, next func()) {
	if w.RawMaterial > 0 {
		next()
		return
	}
	w.plant.Stats.RestockWaits[w.ID]++
	w.Restock(p, func() {
		w.ensureMaterial(p, next)
	})
}

// Restock refills the bin using one member of the shared restocking crew.
func (w *WorkStation) Restock(p *sim.Process, done func()) {
	pl := w.plant
	p.Hold(pl.Restockers, func(release func()) {
		restockTime := pl.cfg.RestockTime.Sample(pl.rng)
		pl.Stats.RestockUsage += restockTime
		pl.Trace.RecordRestock(trace.RestockRecord{StationID: w.ID, Clock: p.Now(), Duration: restockTime})
		p.Timeout(restockTime, func() {
			w.RawMaterial = pl.cfg.MaterialCapacity
			logrus.Debugf("[t %010.3f] station %d restocked to %d", p.Now(), w.ID, w.RawMaterial)
			release()
		})
	}, done)
}

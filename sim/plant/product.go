package plant

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/trace"
)

// Product is one item travelling down the line. Stations before the last two
// are visited in order; the last two are visited in whichever order the
// load balancer picks.
type Product struct {
	ID    int
	Stage int
	// Completed is the set of stations this product has been through.
	Completed map[int]bool

	plant *Plant
	proc  *sim.Process
}

func newProduct(pl *Plant, id int) *Product {
	return &Product{
		ID:        id,
		Completed: make(map[int]bool, pl.cfg.NumStations()),
		plant:     pl,
	}
}

// Name identifies the product's process in logs and traces.
func (pr *Product) Name() string {
	return fmt.Sprintf("product_%d", pr.ID)
}

// run is the product's process body.
func (pr *Product) run(p *sim.Process) {
	pr.proc = p
	pr.advance()
}

func (pr *Product) advance() {
	stations := pr.plant.Stations
	n := len(stations)

	if pr.Stage < n-2 {
		station := stations[pr.Stage]
		station.Process(pr.proc, pr, func() {
			pr.markDone(station.ID)
			pr.advance()
		})
		return
	}

	a, b := stations[n-2], stations[n-1]
	var next *WorkStation
	switch {
	case !pr.Completed[a.ID] && !pr.Completed[b.ID]:
		next = pr.plant.balance(pr, a, b)
	case !pr.Completed[a.ID]:
		next = a
	case !pr.Completed[b.ID]:
		next = b
	default:
		pr.finish()
		return
	}
	next.Process(pr.proc, pr, func() {
		pr.markDone(next.ID)
		pr.advance()
	})
}

func (pr *Product) markDone(stationID int) {
	pr.Completed[stationID] = true
	pr.Stage++
}

// finish records the outcome of final inspection. This is the terminal state.
func (pr *Product) finish() {
	stats := pr.plant.Stats
	stats.Finished++
	if bernoulli(pr.plant.rng, pr.plant.cfg.RejectProbability) {
		stats.Rejected++
		logrus.Debugf("[t %010.3f] %s rejected", pr.proc.Now(), pr.Name())
	} else {
		stats.Completed++
		logrus.Debugf("[t %010.3f] %s completed", pr.proc.Now(), pr.Name())
	}
	pr.proc.Finish()
}

// balance picks the station with the shorter wait queue; ties go to a.
func (pl *Plant) balance(pr *Product, a, b *WorkStation) *WorkStation {
	qa, qb := a.Resource.QueueLen(), b.Resource.QueueLen()
	chosen := b
	if qa <= qb {
		chosen = a
	}
	if pl.Trace != nil {
		pl.Trace.RecordRouting(trace.RoutingRecord{
			ProductID:     pr.ID,
			Clock:         pl.Sim.Now(),
			ChosenStation: chosen.ID,
			Reason:        fmt.Sprintf("shorter-queue (%d:%d %d:%d)", a.ID, qa, b.ID, qb),
			Tie:           qa == qb,
			Candidates: []trace.CandidateStation{
				{StationID: a.ID, QueueDepth: qa, InUse: a.Resource.InUse()},
				{StationID: b.ID, QueueDepth: qb, InUse: b.Resource.InUse()},
			},
		})
	}
	return chosen
}

package replication

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plant-sim/sim/plant"
)

// runNamespace scopes the name-based run IDs of this program.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/inference-sim/plant-sim/runs"))

// Record is the metrics of one replication, the unit handed to reporting
// collaborators. Slices are indexed by station ID.
type Record struct {
	Replication int     `json:"replication"`
	RunID       string  `json:"run_id"`
	Seed        int64   `json:"seed"`
	Horizon     float64 `json:"horizon"`

	Arrived        int     `json:"arrived_count"`
	CompletedCount int     `json:"completed_count"`
	RejectedCount  int     `json:"rejected_count"`
	DefectRate     float64 `json:"defect_rate"`

	Occupancy    []float64 `json:"station_occupancy"`
	Idle         []float64 `json:"station_idle_time"`
	Failures     []int     `json:"station_failures"`
	RestockWaits []int     `json:"station_restock_waits"`
	QueueWait    []float64 `json:"station_queue_wait"`

	TotalRepairTime  float64 `json:"total_repair_time"`
	RestockOccupancy float64 `json:"restock_occupancy"`
	RestockQueueWait float64 `json:"restock_queue_wait"`
	AvgRepairTime    float64 `json:"avg_repair_time"`
	AvgRestockDelay  float64 `json:"avg_restock_delay"`

	Events int `json:"events_dispatched"`
}

// RunID derives the deterministic identifier of replication index in the
// batch seeded with seed.
func RunID(seed int64, index int) string {
	return uuid.NewSHA1(runNamespace, []byte(fmt.Sprintf("%d/%d", seed, index))).String()
}

// Derive computes the record of a finished replication from its statistics.
// Zero denominators yield zero instead of a division fault.
func Derive(index int, seed int64, horizon float64, st *plant.Stats, events int) Record {
	n := len(st.Busy)
	rec := Record{
		Replication:    index,
		RunID:          RunID(seed, index),
		Seed:           seed,
		Horizon:        horizon,
		Arrived:        st.Arrived,
		CompletedCount: st.Completed,
		RejectedCount:  st.Rejected,
		Occupancy:      make([]float64, n),
		Idle:           make([]float64, n),
		Failures:       append([]int(nil), st.Failures...),
		RestockWaits:   append([]int(nil), st.RestockWaits...),
		QueueWait:      append([]float64(nil), st.QueueWait...),
		Events:         events,
	}

	rec.DefectRate = safeDiv("defect_rate", float64(st.Rejected), float64(st.Completed))
	for i, busy := range st.Busy {
		rec.Occupancy[i] = safeDiv("station_occupancy", busy, horizon)
		rec.Idle[i] = horizon - busy
	}
	rec.TotalRepairTime = st.TotalRepairTime()
	rec.RestockQueueWait = st.RestockQueueWait
	rec.RestockOccupancy = safeDiv("restock_occupancy", st.RestockUsage, horizon)
	rec.AvgRepairTime = safeDiv("avg_repair_time", rec.TotalRepairTime, float64(len(st.RepairTimes)))
	// Busy time per wait, aggregated over all stations; kept as the plant has
	// always reported it even though the units differ.
	rec.AvgRestockDelay = safeDiv("avg_restock_delay", st.RestockUsage, float64(st.TotalRestockWaits()))
	return rec
}

func safeDiv(metric string, num, den float64) float64 {
	if den == 0 {
		if num != 0 {
			logrus.Warnf("%s: zero denominator with numerator %v, reporting 0", metric, num)
		}
		return 0
	}
	return num / den
}

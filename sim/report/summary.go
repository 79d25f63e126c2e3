package report

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/plant-sim/sim/replication"
)

// BottleneckThreshold is the mean occupancy above which a station is flagged
// as a likely throughput constraint.
const BottleneckThreshold = 0.7

// MetricSummary describes one metric across replications.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// CI95 is the half-width of the normal-approximation 95% confidence interval.
	CI95 float64 `json:"ci95"`
}

// StationSummary ranks one station across replications.
type StationSummary struct {
	StationID        int     `json:"station_id"`
	MeanOccupancy    float64 `json:"mean_occupancy"`
	MeanIdleFraction float64 `json:"mean_idle_fraction"`
	MeanFailures     float64 `json:"mean_failures"`
	MeanQueueWait    float64 `json:"mean_queue_wait"`
	Bottleneck       bool    `json:"bottleneck"`
}

// Summary aggregates a batch of records.
type Summary struct {
	Replications     int              `json:"replications"`
	Completed        MetricSummary    `json:"completed"`
	Rejected         MetricSummary    `json:"rejected"`
	DefectRate       MetricSummary    `json:"defect_rate"`
	AvgRepairTime    MetricSummary    `json:"avg_repair_time"`
	AvgRestockDelay  MetricSummary    `json:"avg_restock_delay"`
	RestockOccupancy MetricSummary    `json:"restock_occupancy"`
	RestockQueueWait MetricSummary    `json:"restock_queue_wait"`
	Stations         []StationSummary `json:"stations"` // highest occupancy first
}

// Collector is a Sink that keeps records for summarizing.
type Collector struct {
	records []replication.Record
}

// Write keeps rec.
func (c *Collector) Write(rec replication.Record) error {
	c.records = append(c.records, rec)
	return nil
}

// Records returns the collected records.
func (c *Collector) Records() []replication.Record {
	return c.records
}

// Summarize aggregates the collected records.
func (c *Collector) Summarize() Summary {
	return Summarize(c.records)
}

// Summarize aggregates records. An empty batch yields a zero Summary.
func Summarize(records []replication.Record) Summary {
	s := Summary{Replications: len(records)}
	if len(records) == 0 {
		return s
	}

	column := func(f func(replication.Record) float64) MetricSummary {
		xs := make([]float64, len(records))
		for i, rec := range records {
			xs[i] = f(rec)
		}
		return describe(xs)
	}
	s.Completed = column(func(r replication.Record) float64 { return float64(r.CompletedCount) })
	s.Rejected = column(func(r replication.Record) float64 { return float64(r.RejectedCount) })
	s.DefectRate = column(func(r replication.Record) float64 { return r.DefectRate })
	s.AvgRepairTime = column(func(r replication.Record) float64 { return r.AvgRepairTime })
	s.AvgRestockDelay = column(func(r replication.Record) float64 { return r.AvgRestockDelay })
	s.RestockOccupancy = column(func(r replication.Record) float64 { return r.RestockOccupancy })
	s.RestockQueueWait = column(func(r replication.Record) float64 { return r.RestockQueueWait })

	s.Stations = rankStations(records)
	return s
}

func describe(xs []float64) MetricSummary {
	m := MetricSummary{
		Min: floats.Min(xs),
		Max: floats.Max(xs),
	}
	if len(xs) < 2 {
		m.Mean = xs[0]
		return m
	}
	m.Mean, m.StdDev = stat.MeanStdDev(xs, nil)
	m.CI95 = 1.96 * stat.StdErr(m.StdDev, float64(len(xs)))
	return m
}

// rankStations sorts stations by mean occupancy, highest first; ties keep
// station order.
func rankStations(records []replication.Record) []StationSummary {
	n := len(records[0].Occupancy)
	stations := make([]StationSummary, n)
	for id := 0; id < n; id++ {
		occ := make([]float64, 0, len(records))
		idle := make([]float64, 0, len(records))
		fails := make([]float64, 0, len(records))
		waits := make([]float64, 0, len(records))
		for _, rec := range records {
			if id >= len(rec.Occupancy) {
				continue
			}
			occ = append(occ, rec.Occupancy[id])
			idle = append(idle, idleFraction(rec.Idle[id], rec.Horizon))
			if id < len(rec.Failures) {
				fails = append(fails, float64(rec.Failures[id]))
			}
			if id < len(rec.QueueWait) {
				waits = append(waits, rec.QueueWait[id])
			}
		}
		st := StationSummary{StationID: id}
		if len(occ) > 0 {
			st.MeanOccupancy = stat.Mean(occ, nil)
			st.MeanIdleFraction = stat.Mean(idle, nil)
		}
		if len(fails) > 0 {
			st.MeanFailures = stat.Mean(fails, nil)
		}
		if len(waits) > 0 {
			st.MeanQueueWait = stat.Mean(waits, nil)
		}
		st.Bottleneck = st.MeanOccupancy > BottleneckThreshold
		stations[id] = st
	}
	slices.SortStableFunc(stations, func(a, b StationSummary) int {
		switch {
		case a.MeanOccupancy > b.MeanOccupancy:
			return -1
		case a.MeanOccupancy < b.MeanOccupancy:
			return 1
		}
		return 0
	})
	return stations
}

func idleFraction(idle, horizon float64) float64 {
	if horizon == 0 {
		return 0
	}
	return idle / horizon
}

// Bottlenecks returns the IDs of flagged stations, highest occupancy first.
func (s Summary) Bottlenecks() []int {
	var ids []int
	for _, st := range s.Stations {
		if st.Bottleneck {
			ids = append(ids, st.StationID)
		}
	}
	return ids
}

// Print displays the summary.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Plant Simulation Summary ===")
	fmt.Fprintf(w, "Replications         : %d\n", s.Replications)
	if s.Replications == 0 {
		return
	}
	printMetric(w, "Completed Products", s.Completed)
	printMetric(w, "Rejected Products", s.Rejected)
	printMetric(w, "Defect Rate", s.DefectRate)
	printMetric(w, "Avg Repair Time", s.AvgRepairTime)
	printMetric(w, "Avg Restock Delay", s.AvgRestockDelay)
	printMetric(w, "Restock Occupancy", s.RestockOccupancy)
	printMetric(w, "Restock Queue Wait", s.RestockQueueWait)
	fmt.Fprintln(w, "--- Stations by occupancy ---")
	for _, st := range s.Stations {
		flag := ""
		if st.Bottleneck {
			flag = "  << bottleneck"
		}
		fmt.Fprintf(w, "Station %d            : occupancy %.3f, idle %.3f, failures %.2f, queue wait %.1f%s\n",
			st.StationID, st.MeanOccupancy, st.MeanIdleFraction, st.MeanFailures, st.MeanQueueWait, flag)
	}
}

func printMetric(w io.Writer, name string, m MetricSummary) {
	if math.IsNaN(m.Mean) {
		fmt.Fprintf(w, "%-21s: n/a\n", name)
		return
	}
	fmt.Fprintf(w, "%-21s: %.4f ± %.4f (min %.4f, max %.4f)\n", name, m.Mean, m.CI95, m.Min, m.Max)
}

package plant

// Stats accumulates the totals of one replication. It is mutated by whichever
// process is running; the kernel is single-threaded so no locking is needed.
type Stats struct {
	Arrived   int // products spawned by the arrival process
	Finished  int // products that reached both load-balanced stations
	Completed int
	Rejected  int

	Busy         []float64 // per-station cumulative processing time
	Failures     []int     // per-station failure count
	RestockWaits []int     // per-station count of empty-material waits
	QueueWait    []float64 // per-station time products spent queued for the slot

	RestockQueueWait float64 // time stations spent queued for a restocker

	RepairTimes  []float64
	RestockUsage float64 // cumulative restocking crew busy time
}

// NewStats creates an accumulator for n stations.
func NewStats(n int) *Stats {
	return &Stats{
		Busy:         make([]float64, n),
		Failures:     make([]int, n),
		RestockWaits: make([]int, n),
		QueueWait:    make([]float64, n),
		RepairTimes:  make([]float64, 0),
	}
}

// TotalRestockWaits sums the restock waits of every station.
func (s *Stats) TotalRestockWaits() int {
	total := 0
	for _, w := range s.RestockWaits {
		total += w
	}
	return total
}

// TotalRepairTime sums every repair duration.
func (s *Stats) TotalRepairTime() float64 {
	total := 0.0
	for _, r := range s.RepairTimes {
		total += r
	}
	return total
}

// TotalFailures sums the failures of every station.
func (s *Stats) TotalFailures() int {
	total := 0
	for _, f := range s.Failures {
		total += f
	}
	return total
}

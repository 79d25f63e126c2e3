// Package trace provides decision-trace recording for plant-level analysis.
// This package has no dependencies on sim/ or sim/plant/; it stores pure data types.
package trace

// CandidateStation captures one of the load-balanced stations as seen by a
// routing decision.
type CandidateStation struct {
	StationID  int
	QueueDepth int // requests waiting for the station's slot
	InUse      int // slots held (0 or 1 for a station)
}

// RoutingRecord captures a single load-balancing decision for one product.
type RoutingRecord struct {
	ProductID     int
	Clock         float64
	ChosenStation int
	Reason        string
	Tie           bool               // queue depths were equal
	Candidates    []CandidateStation // both stations of the balanced pair
}

// FailureRecord captures a station breakdown.
type FailureRecord struct {
	StationID      int
	Clock          float64
	ProcessedCount int
	RepairTime     float64
}

// RestockRecord captures one replenishment of a station's raw material.
type RestockRecord struct {
	StationID int
	Clock     float64 // time the restock crew was acquired
	Duration  float64
}

package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRoutings       int
	TieBreaks           int
	StationDistribution map[int]int // station ID → products routed there first
	Failures            int
	MeanRepairTime      float64
	MaxRepairTime       float64
	Restocks            int
	RestockTime         float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StationDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalRoutings = len(st.Routings)
	for _, r := range st.Routings {
		summary.StationDistribution[r.ChosenStation]++
		if r.Tie {
			summary.TieBreaks++
		}
	}

	summary.Failures = len(st.Failures)
	if len(st.Failures) > 0 {
		total := 0.0
		for _, f := range st.Failures {
			total += f.RepairTime
			if f.RepairTime > summary.MaxRepairTime {
				summary.MaxRepairTime = f.RepairTime
			}
		}
		summary.MeanRepairTime = total / float64(len(st.Failures))
	}

	summary.Restocks = len(st.Restocks)
	for _, r := range st.Restocks {
		summary.RestockTime += r.Duration
	}

	return summary
}

package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures routing decisions, failures and restocks.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelDecisions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during one replication.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Config   TraceConfig
	Routings []RoutingRecord
	Failures []FailureRecord
	Restocks []RestockRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Routings: make([]RoutingRecord, 0),
		Failures: make([]FailureRecord, 0),
		Restocks: make([]RestockRecord, 0),
	}
}

// RecordRouting appends a routing decision record.
func (st *SimulationTrace) RecordRouting(record RoutingRecord) {
	if st == nil {
		return
	}
	st.Routings = append(st.Routings, record)
}

// RecordFailure appends a station failure record.
func (st *SimulationTrace) RecordFailure(record FailureRecord) {
	if st == nil {
		return
	}
	st.Failures = append(st.Failures, record)
}

// RecordRestock appends a restock record.
func (st *SimulationTrace) RecordRestock(record RestockRecord) {
	if st == nil {
		return
	}
	st.Restocks = append(st.Restocks, record)
}

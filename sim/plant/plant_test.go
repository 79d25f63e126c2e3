package plant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/plant-sim/sim"
	"github.com/inference-sim/plant-sim/sim/trace"
)

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTestPlant(t *testing.T, horizon float64, cfg Config, seed int64) *Plant {
	t.Helper()
	s, err := sim.NewSimulator(horizon)
	require.NoError(t, err)
	pl, err := New(s, cfg, newRNG(seed), trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions}))
	require.NoError(t, err)
	return pl
}

// deterministicConfig removes every source of randomness except final inspection.
func deterministicConfig(stations int) Config {
	cfg := DefaultConfig()
	cfg.ProcessTime = Normal{Mean: 4, StdDev: 0}
	cfg.RestockTime = Normal{Mean: 2, StdDev: 0}
	cfg.RejectProbability = 0
	cfg.FailureProbabilities = make([]float64, stations)
	return cfg
}

func TestPlant_FullHorizon_InvariantsHoldAtEveryEvent(t *testing.T) {
	// GIVEN the default plant with a fixed seed
	pl := newTestPlant(t, 5000, DefaultConfig(), 7)
	lastClock := 0.0
	pl.Sim.AfterDispatch = func(ev *sim.Event) {
		// THEN time never moves backward
		if pl.Sim.Clock < lastClock {
			t.Fatalf("clock moved backward: %v -> %v", lastClock, pl.Sim.Clock)
		}
		lastClock = pl.Sim.Clock
		// AND no resource is over-allocated
		for _, r := range append([]*sim.Resource{pl.Restockers}, stationResources(pl)...) {
			if r.InUse() < 0 || r.InUse() > r.Capacity() {
				t.Fatalf("%s in use %d of %d", r.Name, r.InUse(), r.Capacity())
			}
		}
		// AND every bin holds between 0 and its capacity
		for _, ws := range pl.Stations {
			if ws.RawMaterial < 0 || ws.RawMaterial > pl.cfg.MaterialCapacity {
				t.Fatalf("station %d raw material %d", ws.ID, ws.RawMaterial)
			}
		}
	}

	// WHEN the replication runs to the horizon
	pl.Start()
	require.NoError(t, pl.Sim.Run())

	// THEN products flowed and the outcome counts add up
	st := pl.Stats
	assert.Greater(t, st.Arrived, 1000)
	assert.Greater(t, st.Completed, 0)
	assert.Equal(t, st.Finished, st.Completed+st.Rejected)
	assert.LessOrEqual(t, st.Finished, st.Arrived)
	assert.Equal(t, 5000.0, pl.Sim.Clock)
	for i, busy := range st.Busy {
		assert.LessOrEqual(t, busy, 5000.0, "station %d", i)
	}
	assert.Equal(t, len(st.RepairTimes), st.TotalFailures())
	assert.Equal(t, len(pl.Trace.Failures), st.TotalFailures())
}

func stationResources(pl *Plant) []*sim.Resource {
	out := make([]*sim.Resource, len(pl.Stations))
	for i, ws := range pl.Stations {
		out[i] = ws.Resource
	}
	return out
}

func TestPlant_ZeroFailureProbability_NoRepairs(t *testing.T) {
	// GIVEN every station with failure probability forced to 0
	cfg := DefaultConfig()
	cfg.FailureProbabilities = []float64{0, 0, 0, 0, 0, 0}
	pl := newTestPlant(t, 20000, cfg, 3)

	// WHEN the replication runs
	pl.Start()
	require.NoError(t, pl.Sim.Run())

	// THEN no repair was ever recorded
	assert.Empty(t, pl.Stats.RepairTimes)
	assert.Equal(t, 0, pl.Stats.TotalFailures())
	assert.Greater(t, pl.Stats.Completed, 0)
}

func TestPlant_HorizonZero_NothingHappens(t *testing.T) {
	pl := newTestPlant(t, 0, DefaultConfig(), 42)

	pl.Start()
	require.NoError(t, pl.Sim.Run())

	assert.Equal(t, 0, pl.Stats.Arrived)
	assert.Equal(t, 0, pl.Stats.Completed)
	assert.Equal(t, 0, pl.Stats.Rejected)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, pl.Stats.Busy)
}

func TestPlant_SameSeed_IdenticalStats(t *testing.T) {
	run := func() *Stats {
		pl := newTestPlant(t, 3000, DefaultConfig(), 99)
		pl.Start()
		require.NoError(t, pl.Sim.Run())
		return pl.Stats
	}
	assert.Equal(t, run(), run())
}

func TestPlant_Balance_TieGoesToFirstStation(t *testing.T) {
	// GIVEN both load-balanced stations with empty queues
	pl := newTestPlant(t, 100, DefaultConfig(), 1)
	pr := newProduct(pl, 1)
	a, b := pl.Stations[4], pl.Stations[5]

	// WHEN the product is routed
	chosen := pl.balance(pr, a, b)

	// THEN station 4 wins the tie and the decision is traced
	assert.Equal(t, 4, chosen.ID)
	require.Len(t, pl.Trace.Routings, 1)
	assert.True(t, pl.Trace.Routings[0].Tie)
	assert.Equal(t, 4, pl.Trace.Routings[0].ChosenStation)
}

func TestPlant_Balance_ShorterQueueWins(t *testing.T) {
	// GIVEN station 4 busy with one product waiting, station 5 idle
	pl := newTestPlant(t, 100, DefaultConfig(), 1)
	a, b := pl.Stations[4], pl.Stations[5]
	a.Resource.Acquire("holder", func() {})
	a.Resource.Acquire("waiter", func() {})
	require.Equal(t, 1, a.Resource.QueueLen())

	// WHEN a product is routed
	chosen := pl.balance(newProduct(pl, 2), a, b)

	// THEN station 5 is chosen
	assert.Equal(t, 5, chosen.ID)
	assert.False(t, pl.Trace.Routings[0].Tie)
}

func TestProduct_VisitsEveryStationOnce(t *testing.T) {
	// GIVEN a three-station line with deterministic times and no rejects
	pl := newTestPlant(t, 1000, deterministicConfig(3), 5)
	pr := newProduct(pl, 1)

	// WHEN one product runs through the line
	proc := pl.Sim.Spawn(pr.Name(), pr.run)
	require.NoError(t, pl.Sim.Run())

	// THEN it visited all three stations, 4 time units each, and completed
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, pr.Completed)
	assert.Equal(t, 3, pr.Stage)
	assert.True(t, proc.Finished())
	assert.Equal(t, 1, pl.Stats.Finished)
	assert.Equal(t, 1, pl.Stats.Completed)
	assert.Equal(t, []float64{4, 4, 4}, pl.Stats.Busy)
	require.Len(t, pl.Trace.Routings, 1)
	assert.Equal(t, 1, pl.Trace.Routings[0].ChosenStation)
}

func TestProduct_AllRejected_WhenRejectProbabilityIsOne(t *testing.T) {
	cfg := deterministicConfig(2)
	cfg.RejectProbability = 1
	pl := newTestPlant(t, 1000, cfg, 5)
	for i := 1; i <= 3; i++ {
		pr := newProduct(pl, i)
		pl.Sim.Spawn(pr.Name(), pr.run)
	}

	require.NoError(t, pl.Sim.Run())

	assert.Equal(t, 3, pl.Stats.Rejected)
	assert.Equal(t, 0, pl.Stats.Completed)
}

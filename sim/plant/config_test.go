package plant

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/plant-sim/sim"
)

func TestDefaultConfig_SixStationLine(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.NumStations())
	assert.Equal(t, []float64{0.02, 0.01, 0.05, 0.15, 0.07, 0.06}, cfg.FailureProbabilities)
	assert.Equal(t, 3, cfg.Restockers)
	assert.Equal(t, 25, cfg.MaterialCapacity)
	assert.Equal(t, 5, cfg.FailureCheckInterval)
}

func TestConfig_Validate_RejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero restockers", func(c *Config) { c.Restockers = 0 }, "restockers"},
		{"negative restockers", func(c *Config) { c.Restockers = -2 }, "restockers"},
		{"zero material", func(c *Config) { c.MaterialCapacity = 0 }, "material_capacity"},
		{"negative process stddev", func(c *Config) { c.ProcessTime.StdDev = -1 }, "process_time"},
		{"NaN restock mean", func(c *Config) { c.RestockTime.Mean = math.NaN() }, "restock_time"},
		{"negative repair mean", func(c *Config) { c.RepairMean = -1 }, "repair_mean"},
		{"zero arrival mean", func(c *Config) { c.ArrivalMean = 0 }, "arrival_mean"},
		{"reject probability above one", func(c *Config) { c.RejectProbability = 1.5 }, "reject_probability"},
		{"zero failure interval", func(c *Config) { c.FailureCheckInterval = 0 }, "failure_check_interval"},
		{"empty station list", func(c *Config) { c.FailureProbabilities = nil }, "failure_probabilities"},
		{"single station", func(c *Config) { c.FailureProbabilities = []float64{0.1} }, "failure_probabilities"},
		{"negative failure probability", func(c *Config) { c.FailureProbabilities = []float64{0.1, -0.1} }, "failure_probabilities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, sim.ErrConfig), "want ErrConfig, got %v", err)
			var ce *sim.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestNew_ZeroRestockers_ConfigErrorBeforeSimulation(t *testing.T) {
	// GIVEN a restocking crew of size zero
	cfg := DefaultConfig()
	cfg.Restockers = 0
	s, err := sim.NewSimulator(5000)
	require.NoError(t, err)

	// WHEN the plant is built
	pl, err := New(s, cfg, newRNG(1), nil)

	// THEN a configuration error is returned and nothing was scheduled
	assert.Nil(t, pl)
	assert.ErrorIs(t, err, sim.ErrConfig)
	assert.Equal(t, 0, s.EventQueue.Len())
}

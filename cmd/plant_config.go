package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/plant-sim/sim/plant"
)

// loadPlantConfig reads a plant configuration file on top of the defaults.
// Keys absent from the file keep their default values; unknown keys are
// rejected so that typos cause errors. An empty path returns the defaults.
func loadPlantConfig(path string) (plant.Config, error) {
	cfg := plant.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading plant config: %w", err)
	}
	return parsePlantConfig(data)
}

func parsePlantConfig(data []byte) (plant.Config, error) {
	cfg := plant.DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing plant config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	sim "github.com/rampsim/rampsim/sim"
)

// ScenarioFile represents the full scenarios YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Title     string         `yaml:"title"`
	Duration  float64        `yaml:"duration"` // seconds; applies to scenarios without their own duration
	Scenarios []ScenarioSpec `yaml:"scenarios"`
}

// ScenarioSpec is one named traffic scenario.
type ScenarioSpec struct {
	Name             string    `yaml:"name"`
	ArrivalIntervals []float64 `yaml:"arrival_intervals"`
	ExitDurations    []float64 `yaml:"exit_durations"`
	Lanes            int       `yaml:"lanes"`
	Duration         float64   `yaml:"duration,omitempty"`
	ArrivalCutoff    string    `yaml:"arrival_cutoff,omitempty"`
}

// LoadScenarioFile reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	return &f, nil
}

// Configs converts the file into validated engine configs, in file order.
func (f *ScenarioFile) Configs() ([]sim.ScenarioConfig, error) {
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios defined", sim.ErrInvalidScenarioConfig)
	}
	names := lo.Map(f.Scenarios, func(s ScenarioSpec, _ int) string { return s.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return nil, fmt.Errorf("%w: duplicate scenario names %v", sim.ErrInvalidScenarioConfig, dup)
	}

	configs := make([]sim.ScenarioConfig, 0, len(f.Scenarios))
	for i, s := range f.Scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: scenarios[%d]: name is required", sim.ErrInvalidScenarioConfig, i)
		}
		duration := f.Duration
		if s.Duration != 0 {
			duration = s.Duration
		}
		cfg := sim.ScenarioConfig{
			Name:             s.Name,
			ArrivalIntervals: s.ArrivalIntervals,
			ExitDurations:    s.ExitDurations,
			Lanes:            s.Lanes,
			Duration:         duration,
			ArrivalCutoff:    sim.ArrivalCutoff(s.ArrivalCutoff),
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// selectScenarios keeps the configs whose names appear in only, preserving
// config order. An empty filter keeps everything.
func selectScenarios(configs []sim.ScenarioConfig, only []string) ([]sim.ScenarioConfig, error) {
	if len(only) == 0 {
		return configs, nil
	}
	known := lo.Map(configs, func(c sim.ScenarioConfig, _ int) string { return c.Name })
	if missing := lo.Without(only, known...); len(missing) > 0 {
		return nil, fmt.Errorf("unknown scenarios %v; known: %v", missing, known)
	}
	return lo.Filter(configs, func(c sim.ScenarioConfig, _ int) bool {
		return lo.Contains(only, c.Name)
	}), nil
}

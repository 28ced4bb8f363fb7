package sim

import (
	"fmt"
	"math"
	"slices"
)

// ArrivalCutoff decides what happens to the arrival that crosses the run duration.
type ArrivalCutoff string

const (
	// ArrivalCutoffBeforeSpawn spawns a vehicle only if its arrival time is
	// strictly before the run duration. This is the default.
	ArrivalCutoffBeforeSpawn ArrivalCutoff = "before-spawn"
	// ArrivalCutoffBeforeWait checks the run duration only before each
	// inter-arrival wait, so the first arrival at or past the duration is
	// still spawned.
	ArrivalCutoffBeforeWait ArrivalCutoff = "before-wait"
)

var validArrivalCutoffs = map[ArrivalCutoff]bool{
	"":                       true,
	ArrivalCutoffBeforeSpawn: true,
	ArrivalCutoffBeforeWait:  true,
}

// ScenarioConfig describes one off-ramp scenario. All durations are in seconds.
type ScenarioConfig struct {
	Name             string
	ArrivalIntervals []float64 // cycled: vehicle i waits ArrivalIntervals[i % len] after the previous one
	ExitDurations    []float64 // cycled: vehicle i holds a lane for ExitDurations[i % len]
	Lanes            int
	Duration         float64 // no vehicles are spawned at or after this time
	ArrivalCutoff    ArrivalCutoff
}

// Validate checks that the config can be run.
func (c ScenarioConfig) Validate() error {
	if err := validateSequence("arrival_intervals", c.ArrivalIntervals); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidScenarioConfig, c.Name, err)
	}
	if err := validateSequence("exit_durations", c.ExitDurations); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidScenarioConfig, c.Name, err)
	}
	if c.Lanes < 1 {
		return fmt.Errorf("%w: %s: lanes must be at least 1, got %d", ErrInvalidScenarioConfig, c.Name, c.Lanes)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return fmt.Errorf("%w: %s: duration must be a positive finite number, got %v", ErrInvalidScenarioConfig, c.Name, c.Duration)
	}
	if !validArrivalCutoffs[c.ArrivalCutoff] {
		return fmt.Errorf("%w: %s: unknown arrival cutoff %q; valid: before-spawn, before-wait", ErrInvalidScenarioConfig, c.Name, c.ArrivalCutoff)
	}
	return nil
}

// Cutoff returns the effective arrival cutoff.
func (c ScenarioConfig) Cutoff() ArrivalCutoff {
	if c.ArrivalCutoff == "" {
		return ArrivalCutoffBeforeSpawn
	}
	return c.ArrivalCutoff
}

// Clone returns a deep copy, so a running scenario cannot observe later
// changes made by the caller.
func (c ScenarioConfig) Clone() ScenarioConfig {
	c.ArrivalIntervals = slices.Clone(c.ArrivalIntervals)
	c.ExitDurations = slices.Clone(c.ExitDurations)
	return c
}

func validateSequence(name string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%s[%d] must be a positive finite number, got %v", name, i, v)
		}
	}
	return nil
}

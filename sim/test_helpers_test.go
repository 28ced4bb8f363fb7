package sim

import (
	"fmt"
	"testing"

	"github.com/rampsim/rampsim/sim/trace"
)

var traceVehicles = trace.TraceConfig{Level: trace.TraceLevelVehicles}

// recordingProcess appends the clock to a shared log every time it is resumed.
type recordingProcess struct {
	name string
	log  *[]string
	err  error
}

func (p *recordingProcess) Name() string { return p.name }

func (p *recordingProcess) Resume(sim *Simulator) error {
	*p.log = append(*p.log, fmt.Sprintf("%s@%.1f", p.name, sim.Clock))
	return p.err
}

// morningPeak returns the first built-in scenario with the given duration.
func morningPeak(duration float64) ScenarioConfig {
	return ScenarioConfig{
		Name:             "Morning Peak",
		ArrivalIntervals: []float64{2, 3, 2.5, 3, 2.5},
		ExitDurations:    []float64{3.5, 3.6, 3.5, 3.6, 3.5},
		Lanes:            1,
		Duration:         duration,
	}
}

// mustRun runs cfg with vehicle tracing and fails the test on error.
func mustRun(t testing.TB, cfg ScenarioConfig) *ScenarioRun {
	t.Helper()
	run, err := NewScenarioRun(cfg, traceVehicles)
	if err != nil {
		t.Fatalf("NewScenarioRun: %v", err)
	}
	if err := run.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return run
}

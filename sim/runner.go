package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rampsim/rampsim/sim/trace"
)

// ScenarioRun owns every per-run entity of one scenario. Nothing is shared
// between two ScenarioRuns.
type ScenarioRun struct {
	Config    ScenarioConfig
	Sim       *Simulator
	Ramp      *Ramp
	Collector *Collector
	Generator *ArrivalGenerator
	Trace     *trace.SimulationTrace // nil unless tracing is enabled

	done bool
}

// NewScenarioRun validates cfg and builds a fresh clock, ramp and collector.
func NewScenarioRun(cfg ScenarioConfig, traceConfig trace.TraceConfig) (*ScenarioRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	s := NewSimulator()
	ramp, err := NewRamp(s, cfg.Lanes)
	if err != nil {
		return nil, err
	}
	run := &ScenarioRun{
		Config:    cfg,
		Sim:       s,
		Ramp:      ramp,
		Collector: NewCollector(),
	}
	if traceConfig.Enabled() {
		run.Trace = trace.NewSimulationTrace(cfg.Name, traceConfig)
		ramp.Trace = run.Trace
	}
	run.Generator = NewArrivalGenerator(cfg.ArrivalIntervals, cfg.Duration, cfg.Cutoff(), run.spawnVehicle)
	return run, nil
}

func (run *ScenarioRun) spawnVehicle(s *Simulator, index int) error {
	v := NewVehicle(s, index, run.Ramp, run.Config.ExitDurations, run.Collector)
	logrus.Debugf("[t=%10.3f] %s arrived", s.Clock, v.Name())
	return s.Start(v)
}

// Run drives the engine until the event queue is empty. A run can only be
// executed once.
func (run *ScenarioRun) Run() error {
	if run.done {
		return fmt.Errorf("scenario %q has already been run", run.Config.Name)
	}
	run.done = true

	logrus.Infof("Starting scenario %q: lanes=%d, duration=%.1fs", run.Config.Name, run.Config.Lanes, run.Config.Duration)
	if err := run.Sim.Start(run.Generator); err != nil {
		return fmt.Errorf("scenario %q: %w", run.Config.Name, err)
	}
	if err := run.Sim.Run(); err != nil {
		return fmt.Errorf("scenario %q: %w", run.Config.Name, err)
	}
	if err := run.checkDrained(); err != nil {
		return fmt.Errorf("scenario %q: %w", run.Config.Name, err)
	}
	if run.Trace != nil {
		for _, r := range run.Collector.records {
			run.Trace.RecordExit(trace.ExitRecord{
				VehicleIndex: r.Index,
				Arrival:      r.ArrivalTime,
				Grant:        r.GrantTime,
				Wait:         r.WaitDuration,
				Exit:         r.ExitDuration,
				Queued:       r.Queued,
			})
		}
	}
	logrus.Infof("Scenario %q finished at t=%.3fs: %d vehicles", run.Config.Name, run.Sim.Clock, run.Collector.Count())
	return nil
}

// checkDrained verifies the end-of-run invariants: every lane is free, no
// requester is left waiting and every spawned vehicle completed.
func (run *ScenarioRun) checkDrained() error {
	if run.Ramp.Occupied() != 0 || run.Ramp.QueueLength() != 0 {
		return fmt.Errorf("%w: %d lanes held and %d waiting after the event queue drained",
			ErrResourceMisuse, run.Ramp.Occupied(), run.Ramp.QueueLength())
	}
	if spawned, done := run.Generator.Spawned(), run.Collector.Count(); spawned != done {
		return fmt.Errorf("spawned %d vehicles but %d completed", spawned, done)
	}
	return nil
}

// Result reduces the run to a ScenarioResult. Call after Run.
func (run *ScenarioRun) Result() ScenarioResult {
	res := run.Collector.Result(run.Config.Name)
	res.PeakOccupied = run.Ramp.PeakOccupied
	res.PeakQueueLength = run.Ramp.PeakQueueLength
	res.EndTime = run.Sim.Clock
	res.Throughput = float64(res.TotalVehicles) / run.Config.Duration * 3600
	return res
}

// RunScenario executes one scenario from a clean state and returns its
// aggregate statistics. No result is returned for an invalid config.
func RunScenario(cfg ScenarioConfig) (ScenarioResult, error) {
	run, err := NewScenarioRun(cfg, trace.TraceConfig{Level: trace.TraceLevelNone})
	if err != nil {
		return ScenarioResult{}, err
	}
	if err := run.Run(); err != nil {
		return ScenarioResult{}, err
	}
	return run.Result(), nil
}

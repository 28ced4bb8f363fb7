package sim

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampsim/rampsim/sim/internal/testutil"
	"github.com/rampsim/rampsim/sim/trace"
)

func TestRunScenario_ConcreteScenario(t *testing.T) {
	// GIVEN the morning-peak schedule over 10 seconds on one lane
	cfg := morningPeak(10)

	// WHEN the scenario runs
	run := mustRun(t, cfg)
	res := run.Result()

	// THEN vehicles arrive at 2, 5 and 7.5 (10.5 is past the duration)
	require.Equal(t, 3, res.TotalVehicles)
	recs := run.Collector.Records()
	assert.Equal(t, []float64{2, 5, 7.5}, []float64{recs[0].ArrivalTime, recs[1].ArrivalTime, recs[2].ArrivalTime})

	// AND the second vehicle waits for the first to finish at 2 + 3.5
	assert.Equal(t, 0.0, recs[0].WaitDuration)
	assert.InDelta(t, 0.5, recs[1].WaitDuration, 1e-9)
	assert.InDelta(t, 1.6, recs[2].WaitDuration, 1e-9)

	testutil.AssertFloat64Equal(t, "AvgWait", 0.7, res.AvgWait, 1e-9)
	testutil.AssertFloat64Equal(t, "AvgExit", 10.6/3, res.AvgExit, 1e-9)
	testutil.AssertFloat64Equal(t, "AvgTotal", 0.7+10.6/3, res.AvgTotal, 1e-9)
	assert.Greater(t, res.AvgWait, 0.0)
	assert.InDelta(t, 12.6, res.EndTime, 1e-9, "in-flight vehicles finish past the run duration")
	assert.Equal(t, 1, res.PeakOccupied)
	assert.Equal(t, 1, res.PeakQueueLength)
	assert.InDelta(t, 3.0/10*3600, res.Throughput, 1e-9)
}

func TestRunScenario_BeforeWaitCutoffSpawnsBoundaryArrival(t *testing.T) {
	cfg := morningPeak(10)
	cfg.ArrivalCutoff = ArrivalCutoffBeforeWait

	res, err := RunScenario(cfg)

	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalVehicles)
	testutil.AssertFloat64Equal(t, "AvgWait", 1.05, res.AvgWait, 1e-9)
	testutil.AssertFloat64Equal(t, "EndTime", 16.2, res.EndTime, 1e-9)
}

func TestRunScenario_DegenerateRun(t *testing.T) {
	// GIVEN a run shorter than the first inter-arrival interval
	cfg := morningPeak(1.5)

	// WHEN it runs
	res, err := RunScenario(cfg)

	// THEN no vehicle is spawned and every average is zero
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalVehicles)
	assert.Equal(t, 0.0, res.AvgWait)
	assert.Equal(t, 0.0, res.AvgExit)
	assert.Equal(t, 0.0, res.AvgTotal)
	assert.Equal(t, 0.0, res.MaxWait)
}

func TestRunScenario_InvalidConfigReturnsNoResult(t *testing.T) {
	cfg := morningPeak(10)
	cfg.Lanes = 0

	res, err := RunScenario(cfg)

	assert.ErrorIs(t, err, ErrInvalidScenarioConfig)
	assert.Equal(t, ScenarioResult{}, res)
}

func TestScenarioRun_Conservation(t *testing.T) {
	// every spawned vehicle completes before the queue drains
	for _, lanes := range []int{1, 2, 3} {
		cfg := morningPeak(600)
		cfg.Lanes = lanes
		run := mustRun(t, cfg)
		assert.Equal(t, run.Generator.Spawned(), run.Collector.Count(), "lanes=%d", lanes)
		assert.Equal(t, 0, run.Ramp.Occupied())
		assert.Equal(t, 0, run.Ramp.QueueLength())
		assert.Equal(t, 0, run.Sim.Pending())
	}
}

func TestScenarioRun_WaitCorrectness(t *testing.T) {
	run := mustRun(t, morningPeak(300))
	for _, r := range run.Collector.Records() {
		assert.Equal(t, r.GrantTime-r.ArrivalTime, r.WaitDuration, "vehicle %d", r.Index)
		assert.GreaterOrEqual(t, r.WaitDuration, 0.0)
		if !r.Queued {
			assert.Equal(t, 0.0, r.WaitDuration, "vehicle %d was never queued", r.Index)
		} else {
			assert.Greater(t, r.WaitDuration, 0.0, "vehicle %d was queued", r.Index)
		}
	}
}

func TestScenarioRun_FIFOAdmission(t *testing.T) {
	// GIVEN an overloaded single lane, where every later vehicle queues
	run := mustRun(t, morningPeak(300))
	recs := run.Collector.Records()

	// THEN grants happen in creation order
	for i := 1; i < len(recs); i++ {
		assert.Less(t, recs[i-1].Index, recs[i].Index)
		assert.LessOrEqual(t, recs[i-1].GrantTime, recs[i].GrantTime)
	}
}

func TestScenarioRun_FIFOAdmission_MultiLane(t *testing.T) {
	// GIVEN arrivals every second with 3.5s exits on two lanes, so lanes free
	// up while several vehicles are queued
	run := mustRun(t, ScenarioConfig{
		Name:             "dense-2",
		ArrivalIntervals: []float64{1},
		ExitDurations:    []float64{3.5},
		Lanes:            2,
		Duration:         60,
	})
	recs := run.Collector.Records()
	slices.SortFunc(recs, func(a, b VehicleRecord) int { return a.Index - b.Index })

	// THEN a later vehicle is never granted a lane before an earlier one
	require.Greater(t, run.Ramp.PeakQueueLength, 1)
	assert.Equal(t, 2, run.Ramp.PeakOccupied)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].GrantTime, recs[i].GrantTime, "vehicle %d granted before vehicle %d", recs[i].Index, recs[i-1].Index)
	}
}

func TestScenarioRun_SingleLaneSerialization(t *testing.T) {
	run := mustRun(t, morningPeak(600))
	require.NotNil(t, run.Trace)

	assert.Equal(t, 1, trace.MaxConcurrentHolds(run.Trace.Exits))
}

func TestScenarioRun_MultiLaneParallelism(t *testing.T) {
	// GIVEN arrivals every second with 3.5s exits on N lanes, demand exceeds
	// capacity so every lane gets used
	for _, lanes := range []int{2, 3, 4} {
		cfg := ScenarioConfig{
			Name:             "dense",
			ArrivalIntervals: []float64{1},
			ExitDurations:    []float64{3.5},
			Lanes:            lanes,
			Duration:         60,
		}
		run := mustRun(t, cfg)

		// THEN up to N holds overlap, never N+1
		assert.Equal(t, lanes, trace.MaxConcurrentHolds(run.Trace.Exits), "lanes=%d", lanes)
		assert.Equal(t, lanes, run.Result().PeakOccupied)
	}
}

func TestScenarioRun_SparseArrivalsNeverWait(t *testing.T) {
	cfg := ScenarioConfig{
		Name:             "sparse",
		ArrivalIntervals: []float64{5, 6, 5.5},
		ExitDurations:    []float64{3.5, 3.6},
		Lanes:            1,
		Duration:         300,
	}
	res, err := RunScenario(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.AvgWait)
	assert.Equal(t, 0, res.PeakQueueLength)
}

func TestScenarioRun_Determinism(t *testing.T) {
	cfg := morningPeak(900)
	run1 := mustRun(t, cfg)
	run2 := mustRun(t, cfg)

	assert.Equal(t, run1.Result(), run2.Result())
	assert.Equal(t, run1.Collector.Records(), run2.Collector.Records())
	assert.Equal(t, run1.Sim.EventCount, run2.Sim.EventCount)
}

func TestScenarioRun_IsolatedFromCallerMutation(t *testing.T) {
	// GIVEN a run built from a config the caller later mutates
	cfg := morningPeak(10)
	run, err := NewScenarioRun(cfg, trace.TraceConfig{})
	require.NoError(t, err)
	cfg.ExitDurations[0] = 100
	cfg.ArrivalIntervals[0] = 100

	// WHEN it runs
	require.NoError(t, run.Run())

	// THEN the values captured at construction were used
	assert.Equal(t, 3, run.Result().TotalVehicles)
	assert.Equal(t, 3.5, run.Collector.Records()[0].ExitDuration)
	assert.Nil(t, run.Trace, "tracing disabled by default")
}

func TestScenarioRun_RunTwiceFails(t *testing.T) {
	run := mustRun(t, morningPeak(10))
	assert.Error(t, run.Run())
}

func TestScenarioRun_NoStateSharedBetweenScenarios(t *testing.T) {
	// running another scenario in between must not change the result
	first, err := RunScenario(morningPeak(120))
	require.NoError(t, err)

	other := morningPeak(500)
	other.Lanes = 2
	_, err = RunScenario(other)
	require.NoError(t, err)

	again, err := RunScenario(morningPeak(120))
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

// goldenScenarios mirrors the built-in scenario table of the CLI.
var goldenScenarios = map[string]ScenarioConfig{
	"Morning Peak":          {ArrivalIntervals: []float64{2, 3, 2.5, 3, 2.5}, ExitDurations: []float64{3.5, 3.6, 3.5, 3.6, 3.5}, Lanes: 1},
	"Evening Peak":          {ArrivalIntervals: []float64{2.5, 3, 2.5, 3, 2.5}, ExitDurations: []float64{3.5, 3.7, 3.6, 3.5, 3.7}, Lanes: 1},
	"Weekend Traffic":       {ArrivalIntervals: []float64{5, 6, 5.5, 6, 5.5}, ExitDurations: []float64{3.5, 3.6, 3.5, 3.6, 3.5}, Lanes: 1},
	"Accident Lane Blocked": {ArrivalIntervals: []float64{2, 3, 2.5, 3, 2.5}, ExitDurations: []float64{3.5, 3.6, 3.5, 3.6, 3.5}, Lanes: 1},
	"New Ramp Design":       {ArrivalIntervals: []float64{2, 2.5, 2, 2.5, 2}, ExitDurations: []float64{3.5, 3.5, 3.5, 3.5, 3.5}, Lanes: 2},
}

func TestRunScenario_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Scenario+"/"+tc.ArrivalCutoff, func(t *testing.T) {
			cfg, ok := goldenScenarios[tc.Scenario]
			require.True(t, ok, "unknown golden scenario %q", tc.Scenario)
			cfg.Name = tc.Scenario
			cfg.Duration = dataset.Duration
			cfg.ArrivalCutoff = ArrivalCutoff(tc.ArrivalCutoff)

			res, err := RunScenario(cfg)
			require.NoError(t, err)

			assert.Equal(t, tc.Metrics.Vehicles, res.TotalVehicles)
			assert.Equal(t, tc.Metrics.PeakOccupied, res.PeakOccupied)
			assert.Equal(t, tc.Metrics.PeakQueueLength, res.PeakQueueLength)
			testutil.AssertFloat64Equal(t, "AvgWait", tc.Metrics.AvgWait, res.AvgWait, 1e-9)
			testutil.AssertFloat64Equal(t, "AvgExit", tc.Metrics.AvgExit, res.AvgExit, 1e-9)
			testutil.AssertFloat64Equal(t, "AvgTotal", tc.Metrics.AvgTotal, res.AvgTotal, 1e-9)
			testutil.AssertFloat64Equal(t, "MaxWait", tc.Metrics.MaxWait, res.MaxWait, 1e-9)
			testutil.AssertFloat64Equal(t, "EndTime", tc.Metrics.EndTime, res.EndTime, 1e-9)
		})
	}
}

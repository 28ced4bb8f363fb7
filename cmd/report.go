package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	sim "github.com/rampsim/rampsim/sim"
	"github.com/rampsim/rampsim/sim/trace"
)

// PrintInputs writes each scenario's schedule, the way the report lists them
// before the results table.
func PrintInputs(w io.Writer, configs []sim.ScenarioConfig) {
	for _, cfg := range configs {
		fmt.Fprintf(w, "--- %s ---\n", cfg.Name)
		fmt.Fprintln(w, "Arrival times (s):", formatSeconds(cfg.ArrivalIntervals))
		fmt.Fprintln(w, "Exit times (s)   :", formatSeconds(cfg.ExitDurations))
		fmt.Fprintln(w, "Ramp lanes      :", cfg.Lanes)
		fmt.Fprintln(w)
	}
}

// PrintResults writes the results table, one row per scenario.
func PrintResults(w io.Writer, results []sim.ScenarioResult) {
	fmt.Fprintf(w, "%-30s %10s %12s %12s %12s\n", "Scenario", "Vehicles", "Avg Wait(s)", "Avg Exit(s)", "Total Avg(s)")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Fprintf(w, "%-30s %10d %12.2f %12.2f %12.2f\n", r.Name, r.TotalVehicles, r.AvgWait, r.AvgExit, r.AvgTotal)
	}
}

// PrintTraceSummaries writes one summary row per traced scenario.
func PrintTraceSummaries(w io.Writer, traces []*trace.SimulationTrace) {
	if len(traces) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "%-30s %10s %12s %12s %12s\n", "Scenario", "Queued", "Max Wait(s)", "Peak Queue", "Max Holds")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, st := range traces {
		s := trace.Summarize(st)
		peakQueue := "-"
		if st.Config.Level == trace.TraceLevelLanes {
			peakQueue = strconv.Itoa(s.PeakQueueLength)
		}
		fmt.Fprintf(w, "%-30s %10d %12.2f %12s %12d\n", st.Scenario, s.QueuedVehicles, s.MaxWait, peakQueue, s.MaxConcurrentHolds)
	}
}

// formatSeconds renders a schedule as [2, 3, 2.5].
func formatSeconds(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

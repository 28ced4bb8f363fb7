package trace

import (
	"sort"

	"github.com/samber/lo"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Vehicles           int
	QueuedVehicles     int
	MaxWait            float64
	MaxConcurrentHolds int // computed from [Grant, End) intervals
	PeakOccupied       int // from lane records; 0 unless traced at TraceLevelLanes
	PeakQueueLength    int // from lane records; 0 unless traced at TraceLevelLanes
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.Vehicles = len(st.Exits)
	summary.QueuedVehicles = lo.CountBy(st.Exits, func(r ExitRecord) bool { return r.Queued })
	if len(st.Exits) > 0 {
		summary.MaxWait = lo.Max(lo.Map(st.Exits, func(r ExitRecord, _ int) float64 { return r.Wait }))
	}
	summary.MaxConcurrentHolds = MaxConcurrentHolds(st.Exits)

	for _, l := range st.Lanes {
		summary.PeakOccupied = max(summary.PeakOccupied, l.Occupied)
		summary.PeakQueueLength = max(summary.PeakQueueLength, l.Queued)
	}
	return summary
}

// MaxConcurrentHolds returns the largest number of half-open [Grant, End)
// intervals that overlap at any instant. A hold ending at t does not overlap
// one starting at t.
func MaxConcurrentHolds(records []ExitRecord) int {
	type edge struct {
		at    float64
		delta int
	}
	edges := make([]edge, 0, 2*len(records))
	for _, r := range records {
		edges = append(edges, edge{r.Grant, +1}, edge{r.End(), -1})
	}
	// releases sort before grants at the same instant
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})

	current, peak := 0, 0
	for _, e := range edges {
		current += e.delta
		peak = max(peak, current)
	}
	return peak
}

// Tracks per-vehicle statistics for one scenario run and reduces them to
// the aggregate ScenarioResult.

package sim

import (
	"slices"

	"github.com/samber/lo"
)

// VehicleRecord is the finalized statistics of one completed vehicle.
type VehicleRecord struct {
	Index        int     // 0-based creation order
	ArrivalTime  float64 // clock when the vehicle was created
	GrantTime    float64 // clock when a lane was assigned
	WaitDuration float64 // GrantTime - ArrivalTime
	ExitDuration float64 // time the lane was held
	Queued       bool    // true if the vehicle entered the wait queue
}

// TotalTime returns wait plus exit duration.
func (r VehicleRecord) TotalTime() float64 {
	return r.WaitDuration + r.ExitDuration
}

// Collector is an append-only list of completed vehicle records, in
// completion order.
type Collector struct {
	records []VehicleRecord
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{records: make([]VehicleRecord, 0)}
}

// Record appends one completed vehicle.
func (c *Collector) Record(r VehicleRecord) {
	c.records = append(c.records, r)
}

// Count returns the number of completed vehicles.
func (c *Collector) Count() int {
	return len(c.records)
}

// MeanWait returns the average wait, or 0 for an empty run.
func (c *Collector) MeanWait() float64 {
	return c.mean(func(r VehicleRecord) float64 { return r.WaitDuration })
}

// MeanExit returns the average exit duration, or 0 for an empty run.
func (c *Collector) MeanExit() float64 {
	return c.mean(func(r VehicleRecord) float64 { return r.ExitDuration })
}

// MaxWait returns the longest wait, or 0 for an empty run.
func (c *Collector) MaxWait() float64 {
	if len(c.records) == 0 {
		return 0
	}
	return lo.Max(lo.Map(c.records, func(r VehicleRecord, _ int) float64 { return r.WaitDuration }))
}

// Records returns a copy of the completed records.
func (c *Collector) Records() []VehicleRecord {
	return slices.Clone(c.records)
}

func (c *Collector) mean(field func(VehicleRecord) float64) float64 {
	if len(c.records) == 0 {
		return 0
	}
	return lo.SumBy(c.records, field) / float64(len(c.records))
}

// ScenarioResult is the aggregate outcome of one scenario run.
type ScenarioResult struct {
	Name          string
	TotalVehicles int
	AvgWait       float64
	AvgExit       float64
	AvgTotal      float64 // AvgWait + AvgExit

	MaxWait         float64
	PeakOccupied    int
	PeakQueueLength int
	EndTime         float64 // clock when the event queue drained; may exceed the run duration
	Throughput      float64 // vehicles per hour of nominal run duration
}

// Result reduces the collector to a ScenarioResult. Ramp peaks, end time and
// throughput are filled in by the runner.
func (c *Collector) Result(name string) ScenarioResult {
	avgWait := c.MeanWait()
	avgExit := c.MeanExit()
	return ScenarioResult{
		Name:          name,
		TotalVehicles: c.Count(),
		AvgWait:       avgWait,
		AvgExit:       avgExit,
		AvgTotal:      avgWait + avgExit,
		MaxWait:       c.MaxWait(),
	}
}

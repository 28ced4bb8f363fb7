// Package trace provides run tracing for off-ramp scenario analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// LaneEvent names the kind of lane occupancy change.
type LaneEvent string

const (
	LaneGranted  LaneEvent = "granted"  // lane handed out on request
	LaneQueued   LaneEvent = "queued"   // requester appended to the wait queue
	LaneHandoff  LaneEvent = "handoff"  // released lane passed straight to the queue head
	LaneReleased LaneEvent = "released" // lane returned to the free pool
)

// ExitRecord captures a single vehicle's completed pass through the ramp.
type ExitRecord struct {
	VehicleIndex int
	Arrival      float64
	Grant        float64
	Wait         float64
	Exit         float64
	Queued       bool // true when the vehicle entered the wait queue
}

// End returns the time the vehicle released its lane.
func (r ExitRecord) End() float64 {
	return r.Grant + r.Exit
}

// LaneRecord captures the ramp state right after an occupancy change.
type LaneRecord struct {
	Clock        float64
	Event        LaneEvent
	VehicleIndex int
	Occupied     int
	Queued       int
}

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rampsim/rampsim/sim/trace"
)

type grantState int

const (
	grantPending grantState = iota
	grantHeld
	grantReleased
)

// Grant is a single request for a ramp lane. It is pending while the
// requester sits in the wait queue, held once a lane is assigned, and
// released after Release. A Grant is never reused.
type Grant struct {
	ramp        *Ramp
	process     Process
	index       int
	state       grantState
	RequestedAt float64
	GrantedAt   float64
	Queued      bool // true if the request had to wait in the queue
}

// Held reports whether a lane is currently assigned to this grant.
func (g *Grant) Held() bool {
	return g.state == grantHeld
}

// Release returns the lane to the ramp. Releasing a grant that does not
// hold a lane returns ErrResourceMisuse.
func (g *Grant) Release() error {
	if g == nil || g.ramp == nil {
		return fmt.Errorf("%w: grant was not issued by a ramp", ErrResourceMisuse)
	}
	return g.ramp.release(g)
}

// Hold runs fn while the lane is held and releases the lane on every
// return path. A release failure is reported only if fn succeeded.
func (g *Grant) Hold(fn func() error) (err error) {
	defer func() {
		if rerr := g.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}

// Ramp models a fixed number of interchangeable exit lanes.
// Requests are admitted first-come-first-served; there is no preemption,
// priority or timeout. The Ramp is only touched from the event loop.
type Ramp struct {
	sim      *Simulator
	capacity int
	occupied int
	waiting  []*Grant // FIFO queue of pending grants

	PeakOccupied    int
	PeakQueueLength int
	Trace           *trace.SimulationTrace // optional, may be nil
}

// NewRamp creates a Ramp with the given number of lanes.
func NewRamp(sim *Simulator, lanes int) (*Ramp, error) {
	if lanes < 1 {
		return nil, fmt.Errorf("%w: lanes must be at least 1, got %d", ErrInvalidScenarioConfig, lanes)
	}
	return &Ramp{
		sim:      sim,
		capacity: lanes,
		waiting:  make([]*Grant, 0),
	}, nil
}

// Capacity returns the number of lanes.
func (r *Ramp) Capacity() int { return r.capacity }

// Occupied returns the number of lanes currently held.
func (r *Ramp) Occupied() int { return r.occupied }

// QueueLength returns the number of requesters waiting for a lane.
func (r *Ramp) QueueLength() int { return len(r.waiting) }

// Request asks for a lane on behalf of p. If a lane is free the returned
// grant is already held and p continues without suspending. Otherwise the
// grant is queued and p is resumed once a released lane is handed to it.
// index identifies the requester in trace records.
func (r *Ramp) Request(p Process, index int) *Grant {
	g := &Grant{
		ramp:        r,
		process:     p,
		index:       index,
		state:       grantPending,
		RequestedAt: r.sim.Clock,
	}
	if r.occupied < r.capacity {
		r.assign(g)
		r.record(trace.LaneGranted, g)
		return g
	}
	g.Queued = true
	r.waiting = append(r.waiting, g)
	r.PeakQueueLength = max(r.PeakQueueLength, len(r.waiting))
	logrus.Debugf("[t=%10.3f] %s queued for ramp (queue=%d)", r.sim.Clock, p.Name(), len(r.waiting))
	r.record(trace.LaneQueued, g)
	return g
}

func (r *Ramp) assign(g *Grant) {
	r.occupied++
	r.PeakOccupied = max(r.PeakOccupied, r.occupied)
	g.state = grantHeld
	g.GrantedAt = r.sim.Clock
}

// release frees g's lane. When requesters are waiting, the lane goes to
// the head of the queue and its process is woken by a zero-delay event,
// so it runs after everything already scheduled for this instant.
func (r *Ramp) release(g *Grant) error {
	if g.state != grantHeld {
		return fmt.Errorf("%w: %s released a lane it does not hold", ErrResourceMisuse, g.process.Name())
	}
	if r.occupied == 0 {
		return fmt.Errorf("%w: release with no occupied lanes", ErrResourceMisuse)
	}
	g.state = grantReleased
	r.occupied--
	r.record(trace.LaneReleased, g)

	if len(r.waiting) == 0 {
		return nil
	}
	next := r.waiting[0]
	r.waiting[0] = nil
	r.waiting = r.waiting[1:]
	r.assign(next)
	r.record(trace.LaneHandoff, next)
	if _, err := r.sim.Schedule(0, next.process); err != nil {
		return err
	}
	return nil
}

func (r *Ramp) record(ev trace.LaneEvent, g *Grant) {
	r.Trace.RecordLane(trace.LaneRecord{
		Clock:        r.sim.Clock,
		Event:        ev,
		VehicleIndex: g.index,
		Occupied:     r.occupied,
		Queued:       len(r.waiting),
	})
}

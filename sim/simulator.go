// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Process is a unit of cooperative execution driven by the Simulator.
// A process runs inside Resume until it has to wait, at which point it
// schedules its own wake-up (or queues on a Ramp) and returns.
// Resume is only ever called from the Simulator's event loop.
type Process interface {
	Name() string
	Resume(*Simulator) error
}

// Simulator holds the virtual clock and the pending event queue.
// Time only moves by jumping to the timestamp of the next event; no
// wall-clock waiting occurs.
type Simulator struct {
	// Clock is the current simulated time in seconds.
	Clock float64
	// EventQueue holds all pending events in (timestamp, insertion) order.
	EventQueue EventQueue
	// EventCount is the number of events executed so far.
	EventCount int64

	nextSeq int64
}

// NewSimulator returns a Simulator at time zero with an empty queue.
func NewSimulator() *Simulator {
	return &Simulator{
		Clock:      0,
		EventQueue: make(EventQueue, 0),
	}
}

// Now returns the current simulated time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Pending returns the number of events waiting in the queue.
func (sim *Simulator) Pending() int {
	return len(sim.EventQueue)
}

// Schedule registers a wake-up for p at Now()+delay.
// Events scheduled for the same instant fire in the order they were scheduled.
func (sim *Simulator) Schedule(delay float64, p Process) (EventHandle, error) {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return EventHandle{}, fmt.Errorf("%w: %v scheduled for %s at t=%.3f", ErrInvalidDelay, delay, p.Name(), sim.Clock)
	}
	return sim.push(&ResumeEvent{time: sim.Clock + delay, Process: p}), nil
}

// Start schedules the first resumption of p at the current time.
func (sim *Simulator) Start(p Process) error {
	_, err := sim.Schedule(0, p)
	return err
}

func (sim *Simulator) push(ev Event) EventHandle {
	seq := sim.nextSeq
	sim.nextSeq++
	heap.Push(&sim.EventQueue, eventEntry{event: ev, seqID: seq})
	return EventHandle{ID: seq, Time: ev.Timestamp()}
}

// Advance removes the earliest event, moves the clock to its timestamp and
// executes it. It returns false once the queue is empty.
func (sim *Simulator) Advance() (bool, error) {
	if len(sim.EventQueue) == 0 {
		return false, nil
	}
	entry := heap.Pop(&sim.EventQueue).(eventEntry)
	sim.Clock = entry.event.Timestamp()
	sim.EventCount++
	logrus.Debugf("[t=%10.3f] Executing %T", sim.Clock, entry.event)
	if err := entry.event.Execute(sim); err != nil {
		return false, err
	}
	return true, nil
}

// Run advances until the queue drains or an event fails.
func (sim *Simulator) Run() error {
	for {
		more, err := sim.Advance()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	logrus.Debugf("[t=%10.3f] Simulation ended after %d events", sim.Clock, sim.EventCount)
	return nil
}

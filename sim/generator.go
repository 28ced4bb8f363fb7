package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SpawnFunc starts the vehicle with the given 0-based creation index at the
// simulator's current time.
type SpawnFunc func(sim *Simulator, index int) error

// ArrivalGenerator spawns vehicles on a cyclic inter-arrival schedule
// until the run duration is reached. Vehicles already spawned are left to
// finish; the generator never truncates them.
type ArrivalGenerator struct {
	intervals []float64
	duration  float64
	cutoff    ArrivalCutoff
	spawn     SpawnFunc

	count   int
	waiting bool
	stopped bool
}

// NewArrivalGenerator creates a generator. intervals must be non-empty.
func NewArrivalGenerator(intervals []float64, duration float64, cutoff ArrivalCutoff, spawn SpawnFunc) *ArrivalGenerator {
	if cutoff == "" {
		cutoff = ArrivalCutoffBeforeSpawn
	}
	return &ArrivalGenerator{
		intervals: intervals,
		duration:  duration,
		cutoff:    cutoff,
		spawn:     spawn,
	}
}

// Name identifies the generator in logs.
func (g *ArrivalGenerator) Name() string {
	return "arrival-generator"
}

// Spawned returns the number of vehicles started so far.
func (g *ArrivalGenerator) Spawned() int {
	return g.count
}

// Stopped reports whether the generator has stopped scheduling arrivals.
func (g *ArrivalGenerator) Stopped() bool {
	return g.stopped
}

// Resume handles one wake-up: spawn the arrival that just happened (if the
// cutoff allows it), then wait for the next inter-arrival interval.
func (g *ArrivalGenerator) Resume(sim *Simulator) error {
	if g.stopped {
		return fmt.Errorf("%s resumed after stopping", g.Name())
	}
	if g.waiting {
		g.waiting = false
		if g.cutoff == ArrivalCutoffBeforeSpawn && sim.Clock >= g.duration {
			g.stop(sim)
			return nil
		}
		g.count++
		if err := g.spawn(sim, g.count-1); err != nil {
			return err
		}
	}

	if sim.Clock >= g.duration {
		g.stop(sim)
		return nil
	}
	interval := g.intervals[g.count%len(g.intervals)]
	if _, err := sim.Schedule(interval, g); err != nil {
		return err
	}
	g.waiting = true
	return nil
}

func (g *ArrivalGenerator) stop(sim *Simulator) {
	g.stopped = true
	logrus.Infof("[t=%10.3f] Arrival generator stopped after %d vehicles", sim.Clock, g.count)
}

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// VehicleState tracks a vehicle through the ramp:
// Arrived → (Waiting | Granted) → Exiting → Done.
type VehicleState int

const (
	VehicleArrived VehicleState = iota
	VehicleWaiting
	VehicleGranted
	VehicleExiting
	VehicleDone
)

func (s VehicleState) String() string {
	switch s {
	case VehicleArrived:
		return "arrived"
	case VehicleWaiting:
		return "waiting"
	case VehicleGranted:
		return "granted"
	case VehicleExiting:
		return "exiting"
	case VehicleDone:
		return "done"
	default:
		return fmt.Sprintf("VehicleState(%d)", int(s))
	}
}

// Vehicle is the process for a single vehicle leaving the highway.
type Vehicle struct {
	Index        int // 0-based creation order within the run
	State        VehicleState
	ArrivalTime  float64
	WaitDuration float64
	ExitDuration float64

	ramp          *Ramp
	grant         *Grant
	exitDurations []float64
	collector     *Collector
}

// NewVehicle creates a vehicle that arrives at the simulator's current time.
func NewVehicle(sim *Simulator, index int, ramp *Ramp, exitDurations []float64, collector *Collector) *Vehicle {
	return &Vehicle{
		Index:         index,
		State:         VehicleArrived,
		ArrivalTime:   sim.Clock,
		ramp:          ramp,
		exitDurations: exitDurations,
		collector:     collector,
	}
}

// Name identifies the vehicle in logs, 1-based like the arrival count.
func (v *Vehicle) Name() string {
	return fmt.Sprintf("vehicle-%d", v.Index+1)
}

// Resume advances the vehicle to its next suspension point.
func (v *Vehicle) Resume(sim *Simulator) error {
	switch v.State {
	case VehicleArrived:
		v.grant = v.ramp.Request(v, v.Index)
		if !v.grant.Held() {
			v.State = VehicleWaiting
			return nil
		}
		return v.enterRamp(sim)
	case VehicleWaiting:
		if !v.grant.Held() {
			return fmt.Errorf("%w: %s resumed without a lane", ErrResourceMisuse, v.Name())
		}
		return v.enterRamp(sim)
	case VehicleExiting:
		return v.leaveRamp(sim)
	default:
		return fmt.Errorf("%s resumed in state %s", v.Name(), v.State)
	}
}

func (v *Vehicle) enterRamp(sim *Simulator) error {
	v.State = VehicleGranted
	v.WaitDuration = sim.Clock - v.ArrivalTime
	exit := v.exitDurations[v.Index%len(v.exitDurations)]
	logrus.Debugf("[t=%10.3f] %s granted a lane after %.3fs", sim.Clock, v.Name(), v.WaitDuration)

	v.State = VehicleExiting
	if _, err := sim.Schedule(exit, v); err != nil {
		return v.grant.Hold(func() error { return err })
	}
	v.ExitDuration = exit
	return nil
}

func (v *Vehicle) leaveRamp(sim *Simulator) error {
	return v.grant.Hold(func() error {
		v.collector.Record(VehicleRecord{
			Index:        v.Index,
			ArrivalTime:  v.ArrivalTime,
			GrantTime:    v.grant.GrantedAt,
			WaitDuration: v.WaitDuration,
			ExitDuration: v.ExitDuration,
			Queued:       v.grant.Queued,
		})
		v.State = VehicleDone
		logrus.Debugf("[t=%10.3f] %s left the ramp", sim.Clock, v.Name())
		return nil
	})
}

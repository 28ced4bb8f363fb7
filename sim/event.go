package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event carries a Timestamp (in simulated seconds) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator) error
}

// EventHandle identifies a scheduled event.
type EventHandle struct {
	ID   int64   // insertion sequence number, unique within a Simulator
	Time float64 // absolute simulated time the event fires at
}

// ResumeEvent wakes a suspended Process.
type ResumeEvent struct {
	time    float64
	Process Process
}

// Timestamp returns the scheduled time of the ResumeEvent.
func (e *ResumeEvent) Timestamp() float64 {
	return e.time
}

// Execute resumes the process at its current resumption point.
func (e *ResumeEvent) Execute(sim *Simulator) error {
	logrus.Tracef("<< Resume: %s at %.3fs", e.Process.Name(), e.time)
	return e.Process.Resume(sim)
}

// eventEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking when timestamps are equal.
type eventEntry struct {
	event Event
	seqID int64
}

// EventQueue is a min-heap ordered by (Timestamp, seqID).
// Implements heap.Interface.
type EventQueue []eventEntry

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].event.Timestamp() != eq[j].event.Timestamp() {
		return eq[i].event.Timestamp() < eq[j].event.Timestamp()
	}
	return eq[i].seqID < eq[j].seqID
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = eventEntry{}
	*eq = old[:n-1]
	return item
}

// sim/simulator.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds virtual time, the horizon and the
// event loop. It is single-threaded: exactly one continuation executes at a
// time, and concurrency is only apparent, arising from suspensions
// interleaved at different virtual times.
type Simulator struct {
	Clock   float64
	Horizon float64
	// EventQueue holds every pending wake-up (timeouts, resource handoffs, spawns)
	EventQueue *EventQueue
	// Dispatched counts the events resumed so far
	Dispatched int
	// AfterDispatch, when set, is called after every resumed continuation.
	// Tests use it to check invariants at each point in virtual time.
	AfterDispatch func(ev *Event)
}

// NewSimulator creates a simulator at time zero that stops at horizon.
func NewSimulator(horizon float64) (*Simulator, error) {
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon < 0 {
		return nil, NewConfigError("horizon", "must be a finite non-negative number, got %v", horizon)
	}
	return &Simulator{
		Clock:      0,
		Horizon:    horizon,
		EventQueue: NewEventQueue(),
	}, nil
}

// Now returns the current virtual time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Schedule inserts a wake-up at Now()+delay. A negative delay is a
// programming error and panics with an InvariantViolation.
func (sim *Simulator) Schedule(delay float64, owner string, resume func()) *Event {
	if delay < 0 || math.IsNaN(delay) {
		violate(sim.Clock, "negative delay %v scheduled by %s", delay, owner)
	}
	if resume == nil {
		violate(sim.Clock, "nil continuation scheduled by %s", owner)
	}
	return sim.EventQueue.Push(sim.Clock+delay, owner, resume)
}

// Step dispatches the next event if its wake time does not exceed the
// horizon. It reports whether an event was dispatched.
func (sim *Simulator) Step() bool {
	next := sim.EventQueue.Peek()
	if next == nil || next.Time > sim.Horizon {
		return false
	}
	ev := sim.EventQueue.PopNext()
	if ev.Time < sim.Clock {
		violate(sim.Clock, "event %d from %s scheduled at %v is in the past", ev.Seq, ev.Owner, ev.Time)
	}
	sim.Clock = ev.Time
	logrus.Debugf("[t %010.3f] resume %s (event %d)", sim.Clock, ev.Owner, ev.Seq)
	ev.resume()
	sim.Dispatched++
	if sim.AfterDispatch != nil {
		sim.AfterDispatch(ev)
	}
	return true
}

// Run drives the event loop until the queue is empty or the next event lies
// beyond the horizon. Events beyond the horizon are never popped; the
// processes waiting on them are abandoned. An InvariantViolation raised by
// any continuation aborts the run and is returned.
func (sim *Simulator) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*InvariantViolation)
			if !ok {
				panic(r)
			}
			logrus.Errorf("[t %010.3f] run aborted: %v", sim.Clock, iv)
			err = iv
		}
	}()

	for sim.Step() {
	}
	if sim.Clock < sim.Horizon {
		sim.Clock = sim.Horizon
	}
	logrus.Debugf("[t %010.3f] simulation ended, %d events dispatched, %d abandoned",
		sim.Clock, sim.Dispatched, sim.EventQueue.Len())
	return nil
}

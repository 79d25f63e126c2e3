package sim

import (
	"github.com/sirupsen/logrus"
)

// Resource models shared equipment with a fixed number of slots and a FIFO
// wait queue. A requester waits iff every slot is in use at request time.
// A released slot is handed to the head of the queue, never re-contested.
type Resource struct {
	Name string

	sim      *Simulator
	capacity int
	inUse    int
	waitQ    *WaitQueue

	// WaitTime accumulates the virtual time requests spent queued before a
	// slot was handed to them. Requests still queued are not counted.
	WaitTime float64
}

// NewResource creates a resource bound to sim. Capacity must be at least 1.
func NewResource(sim *Simulator, name string, capacity int) (*Resource, error) {
	if sim == nil {
		return nil, NewConfigError(name, "resource needs a simulator")
	}
	if capacity < 1 {
		return nil, NewConfigError(name, "capacity must be >= 1, got %d", capacity)
	}
	return &Resource{
		Name:     name,
		sim:      sim,
		capacity: capacity,
		waitQ:    &WaitQueue{},
	}, nil
}

// Capacity returns the number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of slots currently held.
func (r *Resource) InUse() int { return r.inUse }

// QueueLen returns the number of processes waiting for a slot.
func (r *Resource) QueueLen() int { return r.waitQ.Len() }

// Acquire takes a slot for owner and continues with granted. When a slot is
// free, granted runs immediately without suspending. Otherwise the request
// joins the wait queue and granted runs once a release hands it the slot.
func (r *Resource) Acquire(owner string, granted func()) {
	if r.inUse > r.capacity {
		violate(r.sim.Clock, "%s over-allocated: %d/%d", r.Name, r.inUse, r.capacity)
	}
	if r.inUse < r.capacity {
		r.inUse++
		granted()
		return
	}
	logrus.Debugf("[t %010.3f] %s waits for %s behind %s", r.sim.Clock, owner, r.Name, r.waitQ)
	r.waitQ.Enqueue(waiter{owner: owner, since: r.sim.Clock, resume: granted})
}

// Release frees one slot. If requests are waiting, the slot passes directly to
// the head of the queue, which resumes at the current time.
func (r *Resource) Release() {
	if r.inUse <= 0 {
		violate(r.sim.Clock, "%s released with no slot held", r.Name)
	}
	next, ok := r.waitQ.Dequeue()
	if !ok {
		r.inUse--
		return
	}
	r.WaitTime += r.sim.Clock - next.since
	logrus.Debugf("[t %010.3f] %s hands its slot to %s", r.sim.Clock, r.Name, next.owner)
	r.sim.Schedule(0, next.owner, next.resume)
}

// Use is scoped acquisition: it acquires a slot, runs body, and releases the
// slot when body calls release, then continues with then. body may suspend
// any number of times, including on other resources, before calling release.
// Calling release twice is an InvariantViolation.
func (r *Resource) Use(owner string, body func(release func()), then func()) {
	r.Acquire(owner, func() {
		released := false
		body(func() {
			if released {
				violate(r.sim.Clock, "%s released twice by %s", r.Name, owner)
			}
			released = true
			r.Release()
			then()
		})
	})
}

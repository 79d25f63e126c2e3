package sim

// Process is a cooperative unit of control flow. Its body is written as a
// chain of continuations: every suspension point (Timeout, a contended
// Acquire) takes the function to run when the scheduler resumes the process.
// The scheduler owns resumption; the process owns its domain state between
// suspensions. A process abandoned at the horizon is simply never resumed.
type Process struct {
	ID string

	sim      *Simulator
	finished bool
}

// Spawn creates a process and schedules its body to start at the current
// time, after the spawning continuation suspends.
func (sim *Simulator) Spawn(id string, body func(p *Process)) *Process {
	p := &Process{ID: id, sim: sim}
	sim.Schedule(0, id, func() { body(p) })
	return p
}

// Now returns the current virtual time.
func (p *Process) Now() float64 {
	return p.sim.Clock
}

// Timeout suspends the process for delay units of virtual time and then
// continues with next. A zero delay still suspends: next runs after every
// event already scheduled for the current time.
func (p *Process) Timeout(delay float64, next func()) {
	if p.finished {
		violate(p.sim.Clock, "process %s suspended after finishing", p.ID)
	}
	p.sim.Schedule(delay, p.ID, next)
}

// Acquire requests a slot of r on behalf of this process.
func (p *Process) Acquire(r *Resource, granted func()) {
	r.Acquire(p.ID, granted)
}

// Hold is scoped acquisition of r for this process; see Resource.Use.
func (p *Process) Hold(r *Resource, body func(release func()), then func()) {
	r.Use(p.ID, body, then)
}

// Finish marks the process as terminated. A finished process may not suspend.
func (p *Process) Finish() {
	p.finished = true
}

// Finished reports whether the process has reached its terminal state.
func (p *Process) Finished() bool {
	return p.finished
}

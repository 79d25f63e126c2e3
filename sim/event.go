package sim

import "container/heap"

// Event is a pending wake-up owned by the EventQueue until it is dispatched.
// Events are ordered by Time, ties broken by Seq (insertion order).
type Event struct {
	Time  float64 // virtual time at which the continuation resumes
	Seq   uint64  // monotonically increasing insertion counter
	Owner string  // process that scheduled the wake-up, for logs and traces

	resume func()
}

// eventHeap implements heap.Interface with deterministic ordering.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}

// EventQueue is a time-ordered queue of pending wake-ups.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Push inserts a wake-up at absolute time at and returns the queued event.
func (q *EventQueue) Push(at float64, owner string, resume func()) *Event {
	ev := &Event{Time: at, Seq: q.nextSeq, Owner: owner, resume: resume}
	q.nextSeq++
	heap.Push(&q.events, ev)
	return ev
}

// PopNext removes and returns the event with the smallest (Time, Seq).
// Returns nil when the queue is empty.
func (q *EventQueue) PopNext() *Event {
	if q.events.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.events).(*Event)
}

// Peek returns the next event without removing it, or nil.
func (q *EventQueue) Peek() *Event {
	if q.events.Len() == 0 {
		return nil
	}
	return q.events[0]
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return q.events.Len()
}

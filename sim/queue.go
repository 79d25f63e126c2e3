// Implements the WaitQueue, which holds the processes blocked on a Resource.
// Waiters are enqueued when the resource is at capacity

package sim

import (
	"fmt"
	"strings"
)

// waiter is a suspended acquire: the continuation to resume once a slot is
// handed over, and when the process started waiting.
type waiter struct {
	owner  string
	since  float64
	resume func()
}

// WaitQueue represents a FIFO queue of processes waiting for a resource slot.
type WaitQueue struct {
	queue []waiter
}

// Enqueue adds a waiter to the back of the wait queue.
func (wq *WaitQueue) Enqueue(w waiter) {
	if w.resume == nil {
		panic("Enqueue: waiter continuation must not be nil")
	}
	wq.queue = append(wq.queue, w)
}

// Dequeue removes and returns the waiter at the front of the queue.
// The second result is false when the queue is empty.
func (wq *WaitQueue) Dequeue() (waiter, bool) {
	if len(wq.queue) == 0 {
		return waiter{}, false
	}
	head := wq.queue[0]
	wq.queue[0] = waiter{}
	wq.queue = wq.queue[1:]
	return head, true
}

// Len returns the number of waiting processes.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, w := range wq.queue {
		sb.WriteString(fmt.Sprint(w.owner))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

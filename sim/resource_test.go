package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResource(t *testing.T, s *Simulator, capacity int) *Resource {
	t.Helper()
	r, err := NewResource(s, "res", capacity)
	require.NoError(t, err)
	return r
}

func TestNewResource_NonPositiveCapacity_ConfigError(t *testing.T) {
	s := newTestSimulator(t, 10)
	for _, c := range []int{0, -1} {
		r, err := NewResource(s, "crew", c)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrConfig)
	}
}

func TestResource_Acquire_FreeSlotGrantsImmediately(t *testing.T) {
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 2)

	granted := 0
	r.Acquire("a", func() { granted++ })
	r.Acquire("b", func() { granted++ })

	// Granted synchronously, nothing scheduled
	assert.Equal(t, 2, granted)
	assert.Equal(t, 2, r.InUse())
	assert.Equal(t, 0, r.QueueLen())
	assert.Equal(t, 0, s.EventQueue.Len())
}

func TestResource_Acquire_FullQueuesFIFO(t *testing.T) {
	// GIVEN a single-slot resource held by "holder"
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 1)
	var order []string
	r.Acquire("holder", func() {})

	// WHEN three more processes request it
	for _, name := range []string{"w1", "w2", "w3"} {
		r.Acquire(name, func() {
			order = append(order, name)
			s.Schedule(1, name, r.Release)
		})
	}

	// THEN all three queue
	assert.Equal(t, 3, r.QueueLen())

	// AND are served in that order once the holder releases
	r.Release()
	require.NoError(t, s.Run())
	assert.Equal(t, []string{"w1", "w2", "w3"}, order)
	assert.Equal(t, 0, r.InUse())
	// w1 waited 0, w2 waited 1, w3 waited 2
	assert.Equal(t, 3.0, r.WaitTime)
}

func TestResource_Release_HandsSlotToHeadNotNewcomer(t *testing.T) {
	// GIVEN a full resource with one waiter
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 1)
	r.Acquire("holder", func() {})
	var got []string
	r.Acquire("waiter", func() { got = append(got, "waiter") })

	// WHEN the holder releases and a newcomer asks in the same instant
	r.Release()
	r.Acquire("newcomer", func() { got = append(got, "newcomer") })

	// THEN the slot still belongs to the waiter; the newcomer queues
	assert.Equal(t, 1, r.InUse())
	assert.Equal(t, 1, r.QueueLen())
	require.NoError(t, s.Run())
	assert.Equal(t, []string{"waiter"}, got)
}

func TestResource_Release_WithoutAcquirePanics(t *testing.T) {
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 1)
	assert.Panics(t, r.Release)
}

func TestResource_WaitTime_Accumulates(t *testing.T) {
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 1)
	r.Acquire("holder", func() { s.Schedule(3, "holder", r.Release) })
	r.Acquire("waiter", func() {})

	require.NoError(t, s.Run())

	assert.Equal(t, 3.0, r.WaitTime)
}

func TestResource_WaitTime_ExcludesRequestsStillQueued(t *testing.T) {
	// GIVEN a holder that never releases and a waiter behind it
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 1)
	r.Acquire("holder", func() {})
	r.Acquire("waiter", func() {})

	// WHEN the run reaches the horizon
	require.NoError(t, s.Run())

	// THEN the unserved wait is not counted
	assert.Equal(t, 1, r.QueueLen())
	assert.Equal(t, 0.0, r.WaitTime)
}

func TestResource_Use_ReleasesAcrossNestedSuspensions(t *testing.T) {
	// GIVEN a body that holds outer and suspends on inner before releasing
	s := newTestSimulator(t, 100)
	outer := newTestResource(t, s, 1)
	inner := newTestResource(t, s, 1)
	var doneAt []float64

	work := func(name string) {
		outer.Use(name, func(release func()) {
			inner.Use(name, func(innerRelease func()) {
				s.Schedule(2, name, innerRelease)
			}, func() {
				s.Schedule(1, name, release)
			})
		}, func() { doneAt = append(doneAt, s.Now()) })
	}
	work("p1")
	work("p2")

	// WHEN both run
	require.NoError(t, s.Run())

	// THEN they serialized on outer and both resources are free
	assert.Equal(t, []float64{3, 6}, doneAt)
	assert.Equal(t, 0, outer.InUse())
	assert.Equal(t, 0, inner.InUse())
}

func TestResource_Use_DoubleReleaseIsViolation(t *testing.T) {
	s := newTestSimulator(t, 10)
	r := newTestResource(t, s, 2)
	r.Use("p", func(release func()) {
		s.Schedule(1, "p", func() {
			release()
			release()
		})
	}, func() {})

	err := s.Run()

	assert.ErrorIs(t, err, ErrInvariant)
}

func TestResource_InUseNeverExceedsCapacity_UnderContention(t *testing.T) {
	// GIVEN 50 processes contending for 3 slots with varying hold times
	s := newTestSimulator(t, 1000)
	r := newTestResource(t, s, 3)
	s.AfterDispatch = func(*Event) {
		if r.InUse() < 0 || r.InUse() > r.Capacity() {
			t.Fatalf("in use %d of %d", r.InUse(), r.Capacity())
		}
	}
	served := 0
	for i := 0; i < 50; i++ {
		hold := float64(i%4 + 1)
		s.Schedule(float64(i%5), "p", func() {
			r.Use("p", func(release func()) {
				s.Schedule(hold, "p", release)
			}, func() { served++ })
		})
	}

	// WHEN all of them run
	require.NoError(t, s.Run())

	// THEN every one was served and no slot leaked
	assert.Equal(t, 50, served)
	assert.Equal(t, 0, r.InUse())
	assert.Equal(t, 0, r.QueueLen())
}

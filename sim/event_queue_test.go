package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventSchedule_TimeOrdering tests that events pop in time order
func TestEventSchedule_TimeOrdering(t *testing.T) {
	s := NewEventSchedule()
	s.Schedule(NewEvent(EventArrival, 5.0))
	s.Schedule(NewEvent(EventDeparture, 2.0))
	s.Schedule(NewEvent(EventArrival, 8.0))
	s.Schedule(NewEvent(EventDeparture, 1.0))

	var got []float64
	for s.Len() > 0 {
		e, err := s.PopEarliest()
		require.NoError(t, err)
		got = append(got, e.Time())
	}
	assert.Equal(t, []float64{1.0, 2.0, 5.0, 8.0}, got)
}

// TestEventSchedule_KindPriorityOrdering tests same-time events put arrivals first
func TestEventSchedule_KindPriorityOrdering(t *testing.T) {
	s := NewEventSchedule()

	// Add in reverse priority order
	s.Schedule(NewEvent(EventDeparture, 3.0))
	s.Schedule(NewEvent(EventArrival, 3.0))

	first, err := s.PopEarliest()
	require.NoError(t, err)
	second, err := s.PopEarliest()
	require.NoError(t, err)

	assert.Equal(t, EventArrival, first.Kind())
	assert.Equal(t, EventDeparture, second.Kind())
}

// TestEventSchedule_MixedSameTime tests an arrival sharing a time with several departures pops first
func TestEventSchedule_MixedSameTime(t *testing.T) {
	s := NewEventSchedule()
	for i := 0; i < 5; i++ {
		s.Schedule(NewEvent(EventDeparture, 4.0))
		s.Schedule(NewEvent(EventArrival, float64(i)))
	}

	// arrivals at 0..4, then the arrival at 4 before the five departures at 4
	var kinds []EventKind
	var times []float64
	for s.Len() > 0 {
		e, err := s.PopEarliest()
		require.NoError(t, err)
		kinds = append(kinds, e.Kind())
		times = append(times, e.Time())
	}
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 4, 4, 4, 4, 4}, times)
	assert.Equal(t, EventArrival, kinds[4])
	for _, k := range kinds[5:] {
		assert.Equal(t, EventDeparture, k)
	}
}

// TestEventSchedule_DeterministicOrdering tests ordering is independent of insertion order
func TestEventSchedule_DeterministicOrdering(t *testing.T) {
	events := []Event{
		NewEvent(EventDeparture, 2.0),
		NewEvent(EventArrival, 2.0),
		NewEvent(EventArrival, 1.0),
		NewEvent(EventDeparture, 0.5),
	}

	h1 := NewEventSchedule()
	for _, e := range events {
		h1.Schedule(e)
	}
	h2 := NewEventSchedule()
	for i := len(events) - 1; i >= 0; i-- {
		h2.Schedule(events[i])
	}

	for h1.Len() > 0 {
		e1, err := h1.PopEarliest()
		require.NoError(t, err)
		e2, err := h2.PopEarliest()
		require.NoError(t, err)
		assert.Equal(t, e1, e2)
	}
	assert.Equal(t, 0, h2.Len())
}

func TestEventSchedule_PopEmpty_ReturnsError(t *testing.T) {
	s := NewEventSchedule()

	_, err := s.PopEarliest()
	assert.ErrorIs(t, err, ErrEmptySchedule)

	s.Schedule(NewEvent(EventArrival, 1.0))
	_, err = s.PopEarliest()
	require.NoError(t, err)
	_, err = s.PopEarliest()
	assert.ErrorIs(t, err, ErrEmptySchedule)
}

func TestEventSchedule_Peek(t *testing.T) {
	s := NewEventSchedule()

	_, ok := s.Peek()
	assert.False(t, ok, "peek on empty schedule")

	s.Schedule(NewEvent(EventDeparture, 7.0))
	s.Schedule(NewEvent(EventArrival, 3.0))

	e, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, NewEvent(EventArrival, 3.0), e)
	assert.Equal(t, 2, s.Len(), "peek must not remove")
}

package sim

import "container/heap"

// scheduledEvent pairs an Event with its insertion sequence number.
type scheduledEvent struct {
	event Event
	seq   uint64
}

// EventSchedule implements a priority queue of Events with deterministic ordering.
// Ordering: time → kind priority → insertion order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
//
// Not thread-safe. Each replication owns its own schedule.
type EventSchedule struct {
	entries []scheduledEvent
	nextSeq uint64
}

// NewEventSchedule creates an empty schedule.
func NewEventSchedule() *EventSchedule {
	s := &EventSchedule{
		entries: make([]scheduledEvent, 0),
	}
	heap.Init(s)
	return s
}

// Len implements heap.Interface
func (s *EventSchedule) Len() int {
	return len(s.entries)
}

// Less implements heap.Interface with deterministic ordering
func (s *EventSchedule) Less(i, j int) bool {
	ei, ej := s.entries[i], s.entries[j]

	// Primary: time (earlier first)
	if ei.event.time != ej.event.time {
		return ei.event.time < ej.event.time
	}

	// Secondary: kind priority (arrival before departure)
	priI := EventKindPriority[ei.event.kind]
	priJ := EventKindPriority[ej.event.kind]
	if priI != priJ {
		return priI < priJ
	}

	// Tertiary: insertion order
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (s *EventSchedule) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
}

// Push implements heap.Interface. Use Schedule instead.
func (s *EventSchedule) Push(x any) {
	s.entries = append(s.entries, x.(scheduledEvent))
}

// Pop implements heap.Interface. Use PopEarliest instead.
func (s *EventSchedule) Pop() any {
	old := s.entries
	n := len(old)
	item := old[n-1]
	s.entries = old[0 : n-1]
	return item
}

// Schedule adds an event to the schedule.
func (s *EventSchedule) Schedule(e Event) {
	heap.Push(s, scheduledEvent{event: e, seq: s.nextSeq})
	s.nextSeq++
}

// PopEarliest removes and returns the earliest event.
// Returns ErrEmptySchedule when no events remain.
func (s *EventSchedule) PopEarliest() (Event, error) {
	if s.Len() == 0 {
		return Event{}, ErrEmptySchedule
	}
	return heap.Pop(s).(scheduledEvent).event, nil
}

// Peek returns the earliest event without removing it.
func (s *EventSchedule) Peek() (Event, bool) {
	if s.Len() == 0 {
		return Event{}, false
	}
	return s.entries[0].event, true
}

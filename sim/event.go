package sim

import "fmt"

// EventKind identifies what happens to the queue when an Event fires.
type EventKind int

const (
	// EventArrival adds one customer to the system.
	EventArrival EventKind = iota
	// EventDeparture removes the customer currently in service.
	EventDeparture
)

// EventKindPriority orders events that share a timestamp (lower fires first).
// Arrivals go first so a departure pre-booked at its own arrival instant never
// sees an empty queue.
var EventKindPriority = map[EventKind]int{
	EventArrival:   0,
	EventDeparture: 1,
}

func (k EventKind) String() string {
	switch k {
	case EventArrival:
		return "Arrival"
	case EventDeparture:
		return "Departure"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is an immutable (kind, time) pair. Events are ordered by time only;
// EventSchedule adds the tie-break.
type Event struct {
	kind EventKind
	time float64 // simulated time units
}

// NewEvent creates an Event of the given kind firing at time t.
func NewEvent(kind EventKind, t float64) Event {
	return Event{kind: kind, time: t}
}

// Kind returns the event kind.
func (e Event) Kind() EventKind { return e.kind }

// Time returns the scheduled time of the event.
func (e Event) Time() float64 { return e.time }

// Before reports whether e fires strictly earlier than other.
func (e Event) Before(other Event) bool { return e.time < other.time }

func (e Event) String() string {
	return fmt.Sprintf("Event{kind=%s, time=%.4f}", e.kind, e.time)
}

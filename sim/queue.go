package sim

import "fmt"

// Queue holds the state of one single-server queue for one replication:
// the number of customers in the system and the time-weighted statistics
// needed for a Little's-Law estimate of the mean time in system.
//
// A Queue is owned by exactly one replication and discarded at its end.
// It borrows the Simulator's Stream for its draws.
type Queue struct {
	arrivalRate float64 // lambda, customers per unit time
	service     ServiceDiscipline
	stream      *Stream

	customersInQueue   int     // number in system, including the one in service
	clock              float64 // time of the last processed event
	lastStatTime       float64 // time up to which weightedArea has been integrated
	weightedArea       float64 // integral of customersInQueue over [0, lastStatTime]
	customersCompleted int
}

// NewQueue creates an empty queue at time 0.
func NewQueue(arrivalRate float64, service ServiceDiscipline, stream *Stream) (*Queue, error) {
	if !(arrivalRate > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidArrivalRate, arrivalRate)
	}
	if !service.IsValid() {
		return nil, fmt.Errorf("%w: unknown service discipline %v", ErrInvalidConfig, service)
	}
	if stream == nil {
		return nil, fmt.Errorf("%w: nil random stream", ErrInvalidConfig)
	}
	return &Queue{
		arrivalRate: arrivalRate,
		service:     service,
		stream:      stream,
	}, nil
}

// GenerateInterarrivalTime draws an Exp(lambda) inter-arrival gap.
func (q *Queue) GenerateInterarrivalTime() float64 {
	return q.stream.Exponential(q.arrivalRate)
}

// GenerateServiceTime draws a service duration from the queue's discipline.
func (q *Queue) GenerateServiceTime() float64 {
	return q.service.Draw(q.stream)
}

// AdvanceClockTo integrates the number-in-system curve up to newTime and moves
// the clock there. Call it before OnArrival/OnDeparture so the area reflects
// the count in effect before the event.
func (q *Queue) AdvanceClockTo(newTime float64) error {
	if newTime < q.clock {
		return fmt.Errorf("%w: %v -> %v", ErrClockRegression, q.clock, newTime)
	}
	q.weightedArea += float64(q.customersInQueue) * (newTime - q.lastStatTime)
	q.lastStatTime = newTime
	q.clock = newTime
	return nil
}

// OnArrival adds a customer to the system.
func (q *Queue) OnArrival() {
	q.customersInQueue++
}

// OnDeparture removes the customer in service and counts it as completed.
func (q *Queue) OnDeparture() error {
	if q.customersInQueue == 0 {
		return fmt.Errorf("%w at t=%v", ErrDepartureFromEmptyQueue, q.clock)
	}
	q.customersInQueue--
	q.customersCompleted++
	return nil
}

// MeanTimeInSystem estimates W = L / lambda, with L the time-average number
// in system over [0, clock]. Returns 0 until the first departure.
func (q *Queue) MeanTimeInSystem() float64 {
	if q.customersCompleted == 0 || q.clock == 0 {
		return 0
	}
	averageCustomers := q.weightedArea / q.clock
	return averageCustomers / q.arrivalRate
}

// IsEmpty reports whether no customer is in the system.
func (q *Queue) IsEmpty() bool { return q.customersInQueue == 0 }

// Clock returns the current simulation time.
func (q *Queue) Clock() float64 { return q.clock }

// CustomersInQueue returns the number of customers in the system.
func (q *Queue) CustomersInQueue() int { return q.customersInQueue }

// CustomersCompleted returns the number of departures processed.
func (q *Queue) CustomersCompleted() int { return q.customersCompleted }

// WeightedArea returns the accumulated integral of the number in system.
func (q *Queue) WeightedArea() float64 { return q.weightedArea }

// ArrivalRate returns lambda.
func (q *Queue) ArrivalRate() float64 { return q.arrivalRate }

func (q *Queue) String() string {
	return fmt.Sprintf("Queue{lambda=%.2f, service=%s, customers=%d, time=%.2f}",
		q.arrivalRate, q.service, q.customersInQueue, q.clock)
}

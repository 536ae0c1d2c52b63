package sim

import "errors"

var (
	// ErrInvalidArrivalRate is returned when an arrival rate falls outside (0, 1).
	// The closed-form mean and the stability assumption both require rho = lambda < 1.
	ErrInvalidArrivalRate = errors.New("arrival rate must be in (0, 1)")

	// ErrInvalidConfig is returned by Config.Validate for any other bad setting.
	ErrInvalidConfig = errors.New("invalid simulation config")

	// ErrEmptySchedule is returned when popping from an exhausted EventSchedule.
	ErrEmptySchedule = errors.New("event schedule is empty")

	// ErrDepartureFromEmptyQueue signals that a departure was scheduled for a queue
	// with no customers. It is always a driver bug and aborts the run.
	ErrDepartureFromEmptyQueue = errors.New("departure processed on empty queue")

	// ErrClockRegression is returned when an event would move the clock backwards.
	ErrClockRegression = errors.New("simulation clock cannot move backwards")

	// ErrArithmetic is returned instead of silently producing Inf or NaN.
	ErrArithmetic = errors.New("arithmetic error")
)

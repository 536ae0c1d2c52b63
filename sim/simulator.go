// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Simulator drives replications of a single-server queue across a list of
// arrival rates. It owns the Stream shared by all of them.
type Simulator struct {
	cfg    Config
	key    SimulationKey
	stream *Stream
}

// NewSimulator validates cfg and seeds the shared Stream. A nil cfg.Seed
// selects a time-derived key, logged so the run can be replayed.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var key SimulationKey
	if cfg.Seed != nil {
		key = NewSimulationKey(*cfg.Seed)
	} else {
		key = TimeDerivedKey()
		logrus.Warnf("No seed configured; using time-derived seed %d", int64(key))
	}
	cfg.ArrivalRates = append([]float64(nil), cfg.ArrivalRates...)
	return &Simulator{
		cfg:    cfg,
		key:    key,
		stream: NewStream(key),
	}, nil
}

// Config returns the validated configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Key returns the seed of the shared Stream.
func (s *Simulator) Key() SimulationKey { return s.key }

// SimulateSingleQueue runs one replication at arrival rate lambda on the
// shared Stream and returns its mean time in system.
func (s *Simulator) SimulateSingleQueue(lambda float64) (float64, error) {
	if err := ValidateArrivalRate(lambda); err != nil {
		return 0, err
	}
	return RunReplication(lambda, s.cfg.Service, s.cfg.Horizon, s.stream)
}

// RunReplication simulates one queue until its clock passes horizon.
//
// The schedule is seeded with an arrival at 0 and the departure of that first
// customer, who starts service immediately. The horizon is checked before each
// pop, so the last processed event may lie past it.
func RunReplication(lambda float64, service ServiceDiscipline, horizon float64, stream *Stream) (float64, error) {
	queue, err := NewQueue(lambda, service, stream)
	if err != nil {
		return 0, err
	}
	schedule := NewEventSchedule()

	schedule.Schedule(NewEvent(EventArrival, 0.0))
	schedule.Schedule(NewEvent(EventDeparture, queue.GenerateServiceTime()))

	for queue.Clock() <= horizon && schedule.Len() > 0 {
		ev, err := schedule.PopEarliest()
		if err != nil {
			return 0, err
		}
		if err := queue.AdvanceClockTo(ev.Time()); err != nil {
			return 0, err
		}
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("[t=%.4f] %s customers=%d", ev.Time(), ev.Kind(), queue.CustomersInQueue())
		}

		switch ev.Kind() {
		case EventArrival:
			queue.OnArrival()
			schedule.Schedule(NewEvent(EventArrival, ev.Time()+queue.GenerateInterarrivalTime()))

		case EventDeparture:
			if err := queue.OnDeparture(); err != nil {
				return 0, err
			}
			if !queue.IsEmpty() {
				// next customer in line starts service now
				schedule.Schedule(NewEvent(EventDeparture, ev.Time()+queue.GenerateServiceTime()))
			} else if next, ok := schedule.Peek(); ok && next.Kind() == EventArrival {
				// server idles until the next arrival, then serves it
				schedule.Schedule(NewEvent(EventDeparture, next.Time()+queue.GenerateServiceTime()))
			}
		}
	}

	logrus.Debugf("Replication lambda=%.2f ended at t=%.4f: completed=%d, mean=%.4f",
		lambda, queue.Clock(), queue.CustomersCompleted(), queue.MeanTimeInSystem())
	return queue.MeanTimeInSystem(), nil
}

// Run evaluates every configured arrival rate in order and returns the
// ordered results. ctx is checked between replications.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	logrus.Infof("Starting %s sweep: rates=%v, replications=%d, horizon=%.1f, seed=%d, parallel=%v",
		s.cfg.Service.Notation(), s.cfg.ArrivalRates, s.cfg.Replications, s.cfg.Horizon, int64(s.key), s.cfg.Parallel)

	results := NewResults(s.cfg.Service, s.key)
	for _, lambda := range s.cfg.ArrivalRates {
		r, err := s.RunRate(ctx, lambda)
		if err != nil {
			return nil, err
		}
		results.Put(lambda, r)
	}
	return results, nil
}

// RunRate runs all replications for one arrival rate and aggregates them.
func (s *Simulator) RunRate(ctx context.Context, lambda float64) (SimulationResult, error) {
	theoretical, err := TheoreticalMeanTimeInSystem(lambda)
	if err != nil {
		return SimulationResult{}, err
	}

	var samples []float64
	if s.cfg.Parallel {
		samples, err = s.replicateParallel(ctx, lambda)
	} else {
		samples, err = s.replicateSequential(ctx, lambda)
	}
	if err != nil {
		return SimulationResult{}, fmt.Errorf("lambda=%v: %w", lambda, err)
	}

	stats := Summarize(samples)
	r := SimulationResult{
		SimulatedMean:   stats.Mean,
		TheoreticalMean: theoretical,
		Stats:           stats,
	}
	logrus.Infof("lambda=%.2f: simulated=%.4f theoretical=%.4f (±%.4f)", lambda, r.SimulatedMean, r.TheoreticalMean, stats.CI95)
	return r, nil
}

// replicateSequential draws every replication from the shared Stream, in order.
func (s *Simulator) replicateSequential(ctx context.Context, lambda float64) ([]float64, error) {
	samples := make([]float64, 0, s.cfg.Replications)
	for i := 0; i < s.cfg.Replications; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mean, err := RunReplication(lambda, s.cfg.Service, s.cfg.Horizon, s.stream)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i, err)
		}
		samples = append(samples, mean)
	}
	return samples, nil
}

// replicateParallel gives each replication its own Stream derived from the
// simulation key, so the outcome does not depend on goroutine scheduling.
func (s *Simulator) replicateParallel(ctx context.Context, lambda float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := s.cfg.Replications
	partitioned := NewPartitionedRNG(s.key)
	streams := make([]*Stream, n)
	for i := range streams {
		streams[i] = partitioned.ForSubsystem(SubsystemReplication(lambda, i))
	}

	workers := s.cfg.Workers
	if workers <= 0 || workers > n {
		workers = n
	}

	samples := make([]float64, n)
	errs := make([]error, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				samples[i], errs[i] = RunReplication(lambda, s.cfg.Service, s.cfg.Horizon, streams[i])
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i, err)
		}
	}
	return samples, nil
}

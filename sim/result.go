package sim

import (
	"encoding/json"
	"fmt"
	"math"
)

// TheoreticalMeanTimeInSystem returns the closed-form mean time in system
// 1/(1-lambda) of the unit-service-rate queue. Rejects lambda outside (0, 1).
func TheoreticalMeanTimeInSystem(lambda float64) (float64, error) {
	if err := ValidateArrivalRate(lambda); err != nil {
		return 0, err
	}
	return 1.0 / (1.0 - lambda), nil
}

// SimulationResult pairs the simulated mean time in system with the
// theoretical prediction for one arrival rate. Immutable once built.
type SimulationResult struct {
	SimulatedMean   float64
	TheoreticalMean float64
	Stats           ReplicationStats // zero when built with NewSimulationResult
}

// NewSimulationResult creates a result without replication statistics.
func NewSimulationResult(simulated, theoretical float64) SimulationResult {
	return SimulationResult{SimulatedMean: simulated, TheoreticalMean: theoretical}
}

// ErrorPercent returns |simulated - theoretical| / theoretical * 100.
// Computed on every call. Fails with ErrArithmetic instead of producing Inf or NaN.
func (r SimulationResult) ErrorPercent() (float64, error) {
	if r.TheoreticalMean == 0 || math.IsInf(r.TheoreticalMean, 0) || math.IsNaN(r.TheoreticalMean) {
		return 0, fmt.Errorf("%w: relative error undefined for theoretical mean %v", ErrArithmetic, r.TheoreticalMean)
	}
	return math.Abs(r.SimulatedMean-r.TheoreticalMean) / r.TheoreticalMean * 100, nil
}

func (r SimulationResult) String() string {
	errPct, err := r.ErrorPercent()
	if err != nil {
		return fmt.Sprintf("{simulation: %.2f, theoretical: %.2f, error: n/a}", r.SimulatedMean, r.TheoreticalMean)
	}
	return fmt.Sprintf("{simulation: %.2f, theoretical: %.2f, error: %.2f%%}", r.SimulatedMean, r.TheoreticalMean, errPct)
}

// === Results ===

// Results is an ordered mapping from arrival rate to SimulationResult.
// Iteration order is insertion order, i.e. the configured rate list.
type Results struct {
	Service ServiceDiscipline
	Key     SimulationKey

	rates  []float64
	byRate map[float64]SimulationResult
}

// NewResults creates an empty result set for one sweep.
func NewResults(service ServiceDiscipline, key SimulationKey) *Results {
	return &Results{
		Service: service,
		Key:     key,
		byRate:  make(map[float64]SimulationResult),
	}
}

// Put stores r under rate. Re-putting an existing rate keeps its position.
func (rs *Results) Put(rate float64, r SimulationResult) {
	if _, ok := rs.byRate[rate]; !ok {
		rs.rates = append(rs.rates, rate)
	}
	rs.byRate[rate] = r
}

// Get returns the result for rate.
func (rs *Results) Get(rate float64) (SimulationResult, bool) {
	r, ok := rs.byRate[rate]
	return r, ok
}

// Rates returns the arrival rates in insertion order.
func (rs *Results) Rates() []float64 {
	return append([]float64(nil), rs.rates...)
}

// Len returns the number of stored rates.
func (rs *Results) Len() int {
	return len(rs.rates)
}

// RateResult is the flattened, export-friendly form of one entry.
type RateResult struct {
	ArrivalRate     float64          `yaml:"arrival_rate" json:"arrival_rate"`
	SimulatedMean   float64          `yaml:"simulation" json:"simulation"`
	TheoreticalMean float64          `yaml:"theoretical" json:"theoretical"`
	ErrorPercent    float64          `yaml:"error_percent" json:"error_percent"`
	Stats           ReplicationStats `yaml:"replication_stats" json:"replication_stats"`
}

// Entries returns the flattened entries in insertion order.
func (rs *Results) Entries() ([]RateResult, error) {
	out := make([]RateResult, 0, len(rs.rates))
	for _, rate := range rs.rates {
		r := rs.byRate[rate]
		errPct, err := r.ErrorPercent()
		if err != nil {
			return nil, fmt.Errorf("rate %v: %w", rate, err)
		}
		out = append(out, RateResult{
			ArrivalRate:     rate,
			SimulatedMean:   r.SimulatedMean,
			TheoreticalMean: r.TheoreticalMean,
			ErrorPercent:    errPct,
			Stats:           r.Stats,
		})
	}
	return out, nil
}

// resultsDocument is the serialized layout of Results.
type resultsDocument struct {
	Service  ServiceDiscipline `yaml:"service" json:"service"`
	Notation string            `yaml:"notation" json:"notation"`
	Seed     int64             `yaml:"seed" json:"seed"`
	Results  []RateResult      `yaml:"results" json:"results"`
}

func (rs *Results) document() (resultsDocument, error) {
	entries, err := rs.Entries()
	if err != nil {
		return resultsDocument{}, err
	}
	return resultsDocument{
		Service:  rs.Service,
		Notation: rs.Service.Notation(),
		Seed:     int64(rs.Key),
		Results:  entries,
	}, nil
}

// MarshalYAML implements yaml.Marshaler, preserving rate order.
func (rs *Results) MarshalYAML() (interface{}, error) {
	return rs.document()
}

// MarshalJSON implements json.Marshaler, preserving rate order.
func (rs *Results) MarshalJSON() ([]byte, error) {
	doc, err := rs.document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

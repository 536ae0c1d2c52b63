package sim

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTheoreticalMeanTimeInSystem(t *testing.T) {
	tests := []struct {
		lambda float64
		want   float64
	}{
		{0.5, 2.0},
		{0.8, 5.0},
		{0.9, 10.0},
		{0.99, 100.0},
	}
	for _, tt := range tests {
		got, err := TheoreticalMeanTimeInSystem(tt.lambda)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "lambda=%v", tt.lambda)
		assert.Equal(t, 1/(1-tt.lambda), got)
	}
}

func TestTheoreticalMeanTimeInSystem_RejectsUnstableRates(t *testing.T) {
	for _, lambda := range []float64{0, -0.1, 1.0, 1.5, math.NaN()} {
		_, err := TheoreticalMeanTimeInSystem(lambda)
		assert.ErrorIs(t, err, ErrInvalidArrivalRate, "lambda=%v", lambda)
	}
}

func TestSimulationResult_ErrorPercent(t *testing.T) {
	got, err := NewSimulationResult(5.0, 4.0).ErrorPercent()
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)

	got, err = NewSimulationResult(10.0, 10.0).ErrorPercent()
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	// below the theoretical value: absolute difference
	got, err = NewSimulationResult(3.0, 4.0).ErrorPercent()
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)
}

func TestSimulationResult_ErrorPercent_ArithmeticError(t *testing.T) {
	for _, theoretical := range []float64{0, math.Inf(1), math.NaN()} {
		_, err := NewSimulationResult(1.0, theoretical).ErrorPercent()
		assert.ErrorIs(t, err, ErrArithmetic, "theoretical=%v", theoretical)
	}
}

func TestSimulationResult_String(t *testing.T) {
	assert.Equal(t, "{simulation: 5.00, theoretical: 4.00, error: 25.00%}", NewSimulationResult(5, 4).String())
	assert.Equal(t, "{simulation: 5.00, theoretical: 0.00, error: n/a}", NewSimulationResult(5, 0).String())
}

func TestResults_PreservesInsertionOrder(t *testing.T) {
	rs := NewResults(ServiceExponential, NewSimulationKey(1))
	rs.Put(0.9, NewSimulationResult(9.5, 10))
	rs.Put(0.5, NewSimulationResult(2.1, 2))
	rs.Put(0.8, NewSimulationResult(4.9, 5))

	assert.Equal(t, []float64{0.9, 0.5, 0.8}, rs.Rates())
	assert.Equal(t, 3, rs.Len())

	// overwrite keeps position
	rs.Put(0.5, NewSimulationResult(2.0, 2))
	assert.Equal(t, []float64{0.9, 0.5, 0.8}, rs.Rates())
	r, ok := rs.Get(0.5)
	require.True(t, ok)
	assert.Equal(t, 2.0, r.SimulatedMean)

	_, ok = rs.Get(0.99)
	assert.False(t, ok)
}

func TestResults_RatesReturnsCopy(t *testing.T) {
	rs := NewResults(ServiceExponential, 0)
	rs.Put(0.5, NewSimulationResult(2, 2))
	rates := rs.Rates()
	rates[0] = 0.7
	assert.Equal(t, []float64{0.5}, rs.Rates())
}

func TestResults_Entries(t *testing.T) {
	rs := NewResults(ServiceConstant, 0)
	rs.Put(0.5, NewSimulationResult(5, 4))

	entries, err := rs.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.5, entries[0].ArrivalRate)
	assert.InDelta(t, 25.0, entries[0].ErrorPercent, 1e-9)

	rs.Put(0.8, NewSimulationResult(5, 0))
	_, err = rs.Entries()
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestResults_MarshalJSON_Ordered(t *testing.T) {
	rs := NewResults(ServiceConstant, NewSimulationKey(12345))
	rs.Put(0.9, NewSimulationResult(5.5, 10))
	rs.Put(0.5, NewSimulationResult(1.5, 2))

	data, err := json.Marshal(rs)
	require.NoError(t, err)

	var doc struct {
		Service  string `json:"service"`
		Notation string `json:"notation"`
		Seed     int64  `json:"seed"`
		Results  []struct {
			ArrivalRate  float64 `json:"arrival_rate"`
			ErrorPercent float64 `json:"error_percent"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "constant", doc.Service)
	assert.Equal(t, "M/D/1", doc.Notation)
	assert.Equal(t, int64(12345), doc.Seed)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, 0.9, doc.Results[0].ArrivalRate)
	assert.Equal(t, 0.5, doc.Results[1].ArrivalRate)
	assert.InDelta(t, 45.0, doc.Results[0].ErrorPercent, 1e-9)
}

func TestResults_MarshalYAML_Ordered(t *testing.T) {
	rs := NewResults(ServiceExponential, NewSimulationKey(3))
	rs.Put(0.8, NewSimulationResult(5, 5))
	rs.Put(0.5, NewSimulationResult(2, 2))

	data, err := yaml.Marshal(rs)
	require.NoError(t, err)

	var doc struct {
		Service string `yaml:"service"`
		Results []struct {
			ArrivalRate float64 `yaml:"arrival_rate"`
			Simulation  float64 `yaml:"simulation"`
		} `yaml:"results"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "exponential", doc.Service)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, 0.8, doc.Results[0].ArrivalRate)
	assert.Equal(t, 2.0, doc.Results[1].Simulation)
}

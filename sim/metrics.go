// Summarizes the per-replication estimates collected for one arrival rate.

package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// z95 is the two-sided 97.5% standard normal quantile.
const z95 = 1.959963984540054

// ReplicationStats describes the spread of the per-replication mean times in
// system for one arrival rate. Mean is the plain arithmetic average.
type ReplicationStats struct {
	Replications int     `yaml:"replications" json:"replications"`
	Mean         float64 `yaml:"mean" json:"mean"`
	StdDev       float64 `yaml:"std_dev" json:"std_dev"`   // sample standard deviation (n-1)
	StdErr       float64 `yaml:"std_err" json:"std_err"`   // StdDev / sqrt(n)
	CI95         float64 `yaml:"ci95" json:"ci95"`         // normal-approximation half-width
	Min          float64 `yaml:"min" json:"min"`
	Median       float64 `yaml:"median" json:"median"`
	Max          float64 `yaml:"max" json:"max"`
}

// Summarize computes ReplicationStats over samples. samples is not modified.
// Spread fields are 0 when fewer than two samples are given.
func Summarize(samples []float64) ReplicationStats {
	n := len(samples)
	if n == 0 {
		return ReplicationStats{}
	}
	rs := ReplicationStats{Replications: n}

	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	rs.Mean = sum / float64(n)

	if n > 1 {
		_, rs.StdDev = stat.MeanStdDev(samples, nil)
		rs.StdErr = stat.StdErr(rs.StdDev, float64(n))
		rs.CI95 = z95 * rs.StdErr
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	rs.Min = sorted[0]
	rs.Max = sorted[n-1]
	rs.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return rs
}

// Contains reports whether x lies inside the 95% confidence interval around Mean.
func (rs ReplicationStats) Contains(x float64) bool {
	return math.Abs(x-rs.Mean) <= rs.CI95
}

package stats

import (
	"math"
	"sort"
)

// Percentile interpolates linearly between closest ranks of the sorted input.
// p <= 0 returns xs[0] and p >= 100 returns xs[len-1] in the caller's order,
// without sorting. Empty input yields 0.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return xs[0]
	}
	if p >= 100 {
		return xs[n-1]
	}
	sorted := sortedCopy(xs)
	idx := p / 100 * float64(n-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Mean returns 0 for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// StdDev is the population standard deviation; 0 for fewer than 2 values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	v := 0.0
	for _, x := range xs {
		d := x - m
		v += d * d
	}
	return math.Sqrt(v / float64(len(xs)))
}

type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// CalculateDistribution summarizes a return sample. Empty input yields zeros.
func CalculateDistribution(xs []float64) Distribution {
	if len(xs) == 0 {
		return Distribution{}
	}
	sorted := sortedCopy(xs)
	return Distribution{
		Count:  len(xs),
		Mean:   Mean(xs),
		Median: Percentile(xs, 50),
		StdDev: StdDev(xs),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    Percentile(xs, 25),
		P75:    Percentile(xs, 75),
	}
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}

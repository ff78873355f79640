package profile

import (
	"math"
	"sort"
)

// numericStats computes the moments and percentiles over the field's
// numeric values. Percentiles use the nearest-rank method on the sorted
// values: index ceil(p/100*n)-1, clamped into range. Stdev is the
// population deviation; the field's values are the whole population of
// interest, not a sample from a larger one.
func numericStats(values []float64, zeroShare float64) *NumericStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)

	st := &NumericStats{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
	}

	sum := 0.0
	zeros := 0
	for _, v := range sorted {
		sum += v
		if v == 0 {
			zeros++
		}
		if v < 0 {
			st.HasNegatives = true
		}
	}
	st.Mean = sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - st.Mean
		variance += d * d
	}
	st.Stdev = math.Sqrt(variance / float64(n))

	st.Median = median(sorted)
	st.P90 = nearestRank(sorted, 90)
	st.P95 = nearestRank(sorted, 95)
	st.P99 = nearestRank(sorted, 99)
	st.ZeroInflated = float64(zeros)/float64(n) > zeroShare

	return st
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// nearestRank returns the p-th percentile of the sorted slice.
func nearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// ZScore returns how many standard deviations v sits from the mean. A zero
// deviation yields zero: a constant field has no outliers.
func (s *NumericStats) ZScore(v float64) float64 {
	if s == nil || s.Stdev == 0 {
		return 0
	}
	return (v - s.Mean) / s.Stdev
}

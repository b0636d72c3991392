package services

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummaryStats describes one numeric dataset column.
type SummaryStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Describe computes summary statistics over values. The input slice is not
// modified. An empty input yields the zero value.
func Describe(values []float64) SummaryStats {
	if len(values) == 0 {
		return SummaryStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SummaryStats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Std:    stat.StdDev(sorted, nil),
		Min:    floats.Min(sorted),
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
	}
}

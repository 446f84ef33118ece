// Package analysis is the statistics engine: descriptive summaries, Pearson correlation,
// simple and multiple least-squares regression, and centroid partitioning.
//
// Every function here is pure and synchronous. Statistical edge cases (too few rows,
// zero variance, singular matrices) never produce errors; they return neutral results.
package analysis

import (
	"math"

	"qisim/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, 0 for empty input
func Mean(data []float64) float64 {
	m, err := mstats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// Median returns the median, 0 for empty input
func Median(data []float64) float64 {
	m, err := mstats.Median(data)
	if err != nil {
		return 0
	}
	return m
}

// Variance returns the population variance, 0 for empty input
func Variance(data []float64) float64 {
	v, err := mstats.Variance(data)
	if err != nil {
		return 0
	}
	return v
}

// StdDev returns the population standard deviation, 0 for empty input
func StdDev(data []float64) float64 {
	sd, err := mstats.StandardDeviation(data)
	if err != nil {
		return 0
	}
	return sd
}

// Summarize profiles a numeric column
func Summarize(data []float64) stats.Summary {
	if len(data) == 0 {
		return stats.Summary{}
	}
	min, _ := mstats.Min(data)
	max, _ := mstats.Max(data)
	q25, _ := mstats.Percentile(data, 25)
	q75, _ := mstats.Percentile(data, 75)
	return stats.Summary{
		N:        len(data),
		Mean:     Mean(data),
		Median:   Median(data),
		StdDev:   StdDev(data),
		Variance: Variance(data),
		Min:      min,
		Max:      max,
		Q25:      q25,
		Q75:      q75,
	}
}

// sums accumulates the raw moments shared by Correlation and FitLine
type sums struct {
	n                float64
	x, y, xy, xx, yy float64
}

func accumulate(x, y []float64) sums {
	var s sums
	s.n = float64(len(x))
	for i := range x {
		s.x += x[i]
		s.y += y[i]
		s.xy += x[i] * y[i]
		s.xx += x[i] * x[i]
		s.yy += y[i] * y[i]
	}
	return s
}

// Correlation calculates Pearson's r. Empty input, mismatched lengths and a zero
// denominator (constant input) all return 0. The result is not clamped.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}
	s := accumulate(x, y)

	numerator := s.n*s.xy - s.x*s.y
	denominator := math.Sqrt((s.n*s.xx - s.x*s.x) * (s.n*s.yy - s.y*s.y))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}

// FitLine solves the single-predictor normal equations. Empty or mismatched input
// returns {0, 0}. Constant x has no unique slope; the fit degrades to a horizontal
// line through mean(y).
func FitLine(x, y []float64) stats.LineFit {
	if len(x) != len(y) || len(x) == 0 {
		return stats.LineFit{}
	}
	s := accumulate(x, y)

	denominator := s.n*s.xx - s.x*s.x
	if denominator == 0 {
		return stats.LineFit{Slope: 0, Intercept: s.y / s.n}
	}
	slope := (s.n*s.xy - s.x*s.y) / denominator
	return stats.LineFit{
		Slope:     slope,
		Intercept: (s.y - slope*s.x) / s.n,
	}
}

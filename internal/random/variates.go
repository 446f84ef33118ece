// Package random holds the variate primitives every stochastic draw in the engine uses.
// Nothing here touches a global source; callers pass a ports.RandomSource.
package random

import (
	"qisim/domain/core"
	"qisim/ports"
)

// Uniform draws a real in [min, max)
func Uniform(r ports.RandomSource, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// IntBetween draws an integer in [min, max] inclusive. Reversed bounds are swapped.
func IntBetween(r ports.RandomSource, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Intn(max-min+1)
}

// Choice draws one element uniformly. The zero value is returned for an empty slice.
func Choice[T any](r ports.RandomSource, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}

// Chance returns true with probability p
func Chance(r ports.RandomSource, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Symmetric draws from U(-bound, +bound)
func Symmetric(r ports.RandomSource, bound float64) float64 {
	return (r.Float64()*2 - 1) * bound
}

// Normal draws from N(mean, sd)
func Normal(r ports.RandomSource, mean, sd float64) float64 {
	return mean + r.NormFloat64()*sd
}

// DateBetween draws a calendar day in [start, end] inclusive
func DateBetween(r ports.RandomSource, start, end core.Date) core.Date {
	if end.Before(start) {
		start, end = end, start
	}
	return start.AddDays(IntBetween(r, 0, start.DaysUntil(end)))
}

// Sample draws up to n distinct elements, preserving draw order
func Sample[T comparable](r ports.RandomSource, items []T, n int) []T {
	seen := make(map[T]struct{}, n)
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item := Choice(r, items)
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

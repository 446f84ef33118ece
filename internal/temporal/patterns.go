// Package temporal synthesizes day-indexed sequences around a base value.
package temporal

import (
	"math"

	"qisim/ports"
)

// Pattern is a named temporal regime
type Pattern string

const (
	Improving     Pattern = "improving"
	Deteriorating Pattern = "deteriorating"
	Fluctuating   Pattern = "fluctuating"
	Stable        Pattern = "stable"
	Cyclic        Pattern = "cyclic"
)

// All lists every regime, in the order random selection draws from
var All = []Pattern{Improving, Deteriorating, Fluctuating, Stable, Cyclic}

// Realistic lists the regimes outcome-driven selection can produce
var Realistic = []Pattern{Improving, Deteriorating, Stable}

// Progress is day/totalDays, 0 when totalDays is not positive
func Progress(day, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return float64(day) / float64(totalDays)
}

// Apply perturbs base for one day under pattern. Only Stable consumes randomness.
func Apply(pattern Pattern, base float64, day, totalDays int, variability float64, r ports.RandomSource) float64 {
	progress := Progress(day, totalDays)
	switch pattern {
	case Improving:
		return base * (1 - progress*0.3*variability)
	case Deteriorating:
		return base * (1 + progress*0.3*variability)
	case Fluctuating:
		return base * (1 + math.Sin(progress*10)*0.15*variability)
	case Cyclic:
		return base * (1 + math.Sin(progress*5)*0.2*variability)
	default:
		return base * (1 + (r.Float64()-0.5)*0.1*variability)
	}
}

// Series produces totalDays values, one per day index
func Series(pattern Pattern, base float64, totalDays int, variability float64, r ports.RandomSource) []float64 {
	out := make([]float64, totalDays)
	for day := range out {
		out[day] = Apply(pattern, base, day, totalDays, variability, r)
	}
	return out
}

// Outcome categories that drive realistic regimes
var (
	favorableOutcomes   = map[string]bool{"Recovered": true, "Improved": true}
	unfavorableOutcomes = map[string]bool{"Deteriorated": true, "Readmitted": true, "Deceased": true}
)

// ForOutcome maps an outcome to the regime its vitals follow
func ForOutcome(outcome string) Pattern {
	switch {
	case favorableOutcomes[outcome]:
		return Improving
	case unfavorableOutcomes[outcome]:
		return Deteriorating
	default:
		return Stable
	}
}

// Random picks any of the five regimes
func Random(r ports.RandomSource) Pattern {
	return All[r.Intn(len(All))]
}

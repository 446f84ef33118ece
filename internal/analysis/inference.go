package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// approxTwoSidedP is a bounded monotonic surrogate for the two-sided t tail:
// 2·(1 − min(1, 0.5·(1 + |t|/√df))). It reaches 0 once |t| ≥ √df and is not a
// calibrated significance level; exactTwoSidedP gives the Student-t value.
func approxTwoSidedP(t float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	return 2 * (1 - math.Min(1, 0.5*(1+math.Abs(t)/math.Sqrt(float64(df)))))
}

// exactTwoSidedP is 2·P(T > |t|) for Student-t with df degrees of freedom
func exactTwoSidedP(t float64, df int) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return clampUnit(2 * dist.Survival(math.Abs(t)))
}

// fSurrogateP is the bounded surrogate 1/(1+F)
func fSurrogateP(f float64) float64 {
	return 1 / (1 + f)
}

// exactFP is the upper tail of F(d1, d2) at f
func exactFP(f float64, d1, d2 int) float64 {
	if d1 <= 0 || d2 <= 0 || math.IsNaN(f) {
		return 1
	}
	dist := distuv.F{D1: float64(d1), D2: float64(d2)}
	return clampUnit(dist.Survival(f))
}

// boundedRatio divides without producing Inf or NaN: a zero denominator yields 0 for a
// zero numerator and ±MaxFloat64 otherwise, keeping results JSON-encodable.
func boundedRatio(num, den float64) float64 {
	if den != 0 {
		return num / den
	}
	switch {
	case num > 0:
		return math.MaxFloat64
	case num < 0:
		return -math.MaxFloat64
	default:
		return 0
	}
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

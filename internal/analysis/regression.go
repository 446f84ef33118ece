package analysis

import (
	"math"

	"qisim/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// FitModel fits outcome ~ intercept + predictors by ordinary least squares.
//
// Rows missing the outcome or any predictor are dropped first. With fewer than p+2
// surviving rows, or a (near-)singular XᵗX, the neutral result is returned: zero
// coefficients, p-values of 1 and R² of 0.
func FitModel(rows []Row, outcome string, predictors []string) stats.RegressionResult {
	p := len(predictors)
	fields := append([]string{outcome}, predictors...)
	cases, _ := CompleteCases(rows, fields)
	n := len(cases)

	if n < p+2 {
		return degenerateResult(outcome, predictors, n)
	}

	ys := make([]float64, n)
	xs := make([][]float64, n)
	for i, c := range cases {
		ys[i] = c[0]
		xs[i] = c[1:]
	}

	x := designMatrix(xs)
	y := mat.NewVecDense(n, ys)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	if math.Abs(mat.Det(&xtx)) < singularTolerance {
		return degenerateResult(outcome, predictors, n)
	}
	// A tiny pivot after the determinant check leaves the identity in place of the
	// inverse; the fit still completes rather than failing.
	xtxInv, _ := invertGaussJordan(&xtx)

	var xty, beta, fitted mat.VecDense
	xty.MulVec(x.T(), y)
	beta.MulVec(xtxInv, &xty)
	fitted.MulVec(x, &beta)

	yMean := Mean(ys)
	var sse, sst float64
	for i := 0; i < n; i++ {
		e := ys[i] - fitted.AtVec(i)
		sse += e * e
		d := ys[i] - yMean
		sst += d * d
	}

	df := n - p - 1
	rSquared := 0.0
	if sst > 0 {
		rSquared = clampFraction(1 - sse/sst)
	}
	adjusted := clampFraction(1 - (1-rSquared)*float64(n-1)/float64(df))

	mse := sse / float64(df)
	fStat := 0.0
	if p > 0 {
		msr := (sst - sse) / float64(p)
		fStat = math.Max(0, boundedRatio(msr, mse))
	}

	result := stats.RegressionResult{
		Outcome:          outcome,
		Coefficients:     make([]stats.CoefficientResult, p),
		Intercept:        beta.AtVec(0),
		RSquared:         rSquared,
		AdjustedRSquared: adjusted,
		FStat:            fStat,
		FStatPValue:      fSurrogateP(fStat),
		FStatExactPValue: exactFP(fStat, p, df),
		Observations:     n,
	}
	if p == 0 {
		result.FStatPValue, result.FStatExactPValue = 1, 1
	}

	for i := 1; i <= p; i++ {
		b := beta.AtVec(i)
		se := math.Sqrt(math.Abs(xtxInv.At(i, i) * mse))
		t := boundedRatio(b, se)
		result.Coefficients[i-1] = stats.CoefficientResult{
			Name:          predictors[i-1],
			Value:         b,
			StandardError: se,
			TStat:         t,
			PValue:        approxTwoSidedP(t, df),
			ExactPValue:   exactTwoSidedP(t, df),
		}
	}
	return result
}

func degenerateResult(outcome string, predictors []string, n int) stats.RegressionResult {
	coefs := make([]stats.CoefficientResult, len(predictors))
	for i, name := range predictors {
		coefs[i] = stats.CoefficientResult{Name: name, PValue: 1, ExactPValue: 1}
	}
	return stats.RegressionResult{
		Outcome:          outcome,
		Coefficients:     coefs,
		FStatPValue:      1,
		FStatExactPValue: 1,
		Observations:     n,
		Degenerate:       true,
	}
}

// clampFraction bounds a goodness-of-fit ratio to [0,1], mapping NaN to 0
func clampFraction(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

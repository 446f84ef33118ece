package stats

// ============================================================================
// RESULT STRUCTURES (plain data, consumed by rendering/export layers)
// ============================================================================

// CoefficientResult is the fitted weight and inference for one predictor
type CoefficientResult struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	StandardError float64 `json:"standardError"`
	TStat         float64 `json:"tStat"`
	PValue        float64 `json:"pValue"`      // Monotonic surrogate of the t tail, see inference.go
	ExactPValue   float64 `json:"exactPValue"` // Two-sided Student-t tail with n-p-1 df
}

// RegressionResult is the output of a multiple OLS fit
// INVARIANTS:
// - Coefficients align with the requested predictor order
// - RSquared and AdjustedRSquared within [0,1]
// - Observations counts rows that survived missing-value filtering
type RegressionResult struct {
	Outcome          string              `json:"outcome"`
	Coefficients     []CoefficientResult `json:"coefficients"`
	Intercept        float64             `json:"intercept"`
	RSquared         float64             `json:"rSquared"`
	AdjustedRSquared float64             `json:"adjustedRSquared"`
	FStat            float64             `json:"fStat"`
	FStatPValue      float64             `json:"fStatPValue"`
	FStatExactPValue float64             `json:"fStatExactPValue"`
	Observations     int                 `json:"observations"`
	Degenerate       bool                `json:"degenerate"` // Neutral fallback (too few rows or singular XᵗX)
}

// Coefficient looks up a predictor's result by name
func (r RegressionResult) Coefficient(name string) (CoefficientResult, bool) {
	for _, c := range r.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return CoefficientResult{}, false
}

// LineFit is a single-predictor least-squares line
type LineFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the line at x
func (l LineFit) Predict(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// ClusterResult is a partition of points around centroids
type ClusterResult struct {
	Assignments []int       `json:"assignments"`
	Centroids   [][]float64 `json:"centroids"`
	Sizes       []int       `json:"sizes"`
	Iterations  int         `json:"iterations"`
	Converged   bool        `json:"converged"`
	Inertia     float64     `json:"inertia"`        // Sum of squared distances to assigned centroids
	Rows        []int       `json:"rows,omitempty"` // Source row of each assignment when rows were filtered
}

// Summary is a descriptive profile of one numeric column
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"stdDev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
}

// CorrelationCell is one pair of a correlation matrix
type CorrelationCell struct {
	X string  `json:"x"`
	Y string  `json:"y"`
	R float64 `json:"r"`
	N int     `json:"n"` // Complete-case rows used for this pair
}

// NamedValue is the {name, value} record charting collaborators consume
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

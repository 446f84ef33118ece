package analysis

import (
	"math"

	"qisim/domain/stats"
	"qisim/ports"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations bounds RefineClusters when no limit is given
const DefaultMaxIterations = 100

// AssignClusters seeds k centroids by sampling input points with replacement and assigns
// every point to its nearest seed by Euclidean distance. It is a single pass: centroids are
// not recomputed afterwards. Use RefineClusters for converged k-means.
//
// The dimension is taken from the first point; points of any other length get
// assignment -1 and take no part.
func AssignClusters(points [][]float64, k int, r ports.RandomSource) stats.ClusterResult {
	if len(points) == 0 || k <= 0 {
		return stats.ClusterResult{Assignments: []int{}, Centroids: [][]float64{}, Sizes: []int{}}
	}
	centroids := seedCentroids(points, k, r)
	assignments, inertia := assign(points, centroids)
	return stats.ClusterResult{
		Assignments: assignments,
		Centroids:   centroids,
		Sizes:       sizes(assignments, k),
		Iterations:  1,
		Inertia:     inertia,
	}
}

// RefineClusters runs Lloyd's algorithm from the same seeding as AssignClusters:
// reassign, recompute each centroid as the feature-wise mean, and stop once assignments
// no longer change or maxIter passes have run. An emptied cluster keeps its centroid.
func RefineClusters(points [][]float64, k, maxIter int, r ports.RandomSource) stats.ClusterResult {
	if len(points) == 0 || k <= 0 {
		return stats.ClusterResult{Assignments: []int{}, Centroids: [][]float64{}, Sizes: []int{}}
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	centroids := seedCentroids(points, k, r)
	assignments, inertia := assign(points, centroids)
	result := stats.ClusterResult{Iterations: 1}

	for result.Iterations < maxIter {
		centroids = recompute(points, assignments, centroids)
		next, nextInertia := assign(points, centroids)
		result.Iterations++
		changed := !equalInts(assignments, next)
		assignments, inertia = next, nextInertia
		if !changed {
			result.Converged = true
			break
		}
	}

	result.Assignments = assignments
	result.Centroids = centroids
	result.Sizes = sizes(assignments, k)
	result.Inertia = inertia
	return result
}

// ClusterOptions tunes ClusterRows
type ClusterOptions struct {
	Iterate       bool // Lloyd refinement instead of a single pass
	MaxIterations int
	Standardize   bool // z-score each feature before measuring distance
}

// ClusterRows partitions the rows that carry every feature. Result.Rows maps each
// assignment back to its input row; centroids are reported in the original units.
func ClusterRows(rows []Row, features []string, k int, opts ClusterOptions, r ports.RandomSource) stats.ClusterResult {
	cases, index := CompleteCases(rows, features)
	points := cases

	var means, sds []float64
	if opts.Standardize && len(cases) > 0 {
		points, means, sds = standardize(cases, len(features))
	}

	var result stats.ClusterResult
	if opts.Iterate {
		result = RefineClusters(points, k, opts.MaxIterations, r)
	} else {
		result = AssignClusters(points, k, r)
	}

	if means != nil {
		for _, c := range result.Centroids {
			for j := range c {
				c[j] = c[j]*sds[j] + means[j]
			}
		}
	}
	result.Rows = index
	return result
}

func seedCentroids(points [][]float64, k int, r ports.RandomSource) [][]float64 {
	centroids := make([][]float64, k)
	for i := range centroids {
		src := points[r.Intn(len(points))]
		centroids[i] = append([]float64(nil), src...)
	}
	return centroids
}

func assign(points, centroids [][]float64) ([]int, float64) {
	dim := len(points[0])
	assignments := make([]int, len(points))
	inertia := 0.0
	for i, pt := range points {
		assignments[i] = -1
		if len(pt) != dim {
			continue
		}
		best := math.Inf(1)
		for c, centroid := range centroids {
			if len(centroid) != dim {
				continue
			}
			if d := floats.Distance(pt, centroid, 2); d < best {
				best = d
				assignments[i] = c
			}
		}
		if assignments[i] >= 0 {
			inertia += best * best
		}
	}
	return assignments, inertia
}

func recompute(points [][]float64, assignments []int, previous [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(previous))
	counts := make([]int, len(previous))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, c := range assignments {
		if c < 0 {
			continue
		}
		floats.Add(sums[c], points[i])
		counts[c]++
	}
	next := make([][]float64, len(previous))
	for c := range sums {
		if counts[c] == 0 {
			next[c] = append([]float64(nil), previous[c]...)
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		next[c] = sums[c]
	}
	return next
}

func standardize(cases [][]float64, dim int) ([][]float64, []float64, []float64) {
	means := make([]float64, dim)
	sds := make([]float64, dim)
	col := make([]float64, len(cases))
	for j := 0; j < dim; j++ {
		for i, c := range cases {
			col[i] = c[j]
		}
		means[j] = Mean(col)
		sds[j] = StdDev(col)
		if sds[j] == 0 {
			sds[j] = 1
		}
	}
	out := make([][]float64, len(cases))
	for i, c := range cases {
		out[i] = make([]float64, dim)
		for j := range c {
			out[i][j] = (c[j] - means[j]) / sds[j]
		}
	}
	return out, means, sds
}

func sizes(assignments []int, k int) []int {
	out := make([]int, k)
	for _, c := range assignments {
		if c >= 0 {
			out[c]++
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

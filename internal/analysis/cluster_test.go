package analysis

import (
	"math"
	"testing"

	"qisim/adapters/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func twoBlobs(n int, seed int64) [][]float64 {
	r := rng.NewSeeded(seed)
	points := make([][]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		points = append(points, []float64{r.NormFloat64(), r.NormFloat64()})
		points = append(points, []float64{100 + r.NormFloat64(), 100 + r.NormFloat64()})
	}
	return points
}

func TestAssignClusters_NearestSeed(t *testing.T) {
	points := twoBlobs(25, 1)
	res := AssignClusters(points, 3, rng.NewSeeded(42))

	require.Len(t, res.Centroids, 3)
	require.Len(t, res.Assignments, len(points))
	assert.Equal(t, 1, res.Iterations)

	total := 0
	for _, s := range res.Sizes {
		total += s
	}
	assert.Equal(t, len(points), total)

	for i, pt := range points {
		got := floats.Distance(pt, res.Centroids[res.Assignments[i]], 2)
		for _, c := range res.Centroids {
			assert.LessOrEqual(t, got, floats.Distance(pt, c, 2))
		}
	}

	// single pass: every centroid is one of the input points
	for _, c := range res.Centroids {
		found := false
		for _, pt := range points {
			if floats.Equal(c, pt) {
				found = true
				break
			}
		}
		assert.True(t, found)
	}
}

func TestAssignClusters_Deterministic(t *testing.T) {
	points := twoBlobs(10, 2)
	a := AssignClusters(points, 2, rng.NewSeeded(7))
	b := AssignClusters(points, 2, rng.NewSeeded(7))
	assert.Equal(t, a, b)
}

func TestAssignClusters_EmptyInput(t *testing.T) {
	res := AssignClusters(nil, 3, rng.NewSeeded(1))
	assert.Empty(t, res.Assignments)
	assert.Empty(t, res.Centroids)

	res = AssignClusters([][]float64{{1, 2}}, 0, rng.NewSeeded(1))
	assert.Empty(t, res.Centroids)
}

func TestAssignClusters_MismatchedDimension(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {5}}
	assignments, inertia := assign(points, [][]float64{{0, 0}, {5}})
	assert.Equal(t, []int{0, 0, -1}, assignments)
	assert.InDelta(t, 2.0, inertia, 1e-12)
	assert.Equal(t, []int{2, 0}, sizes(assignments, 2))
}

func TestRefineClusters_NeverWorseThanSinglePass(t *testing.T) {
	points := twoBlobs(30, 3)
	for seed := int64(1); seed <= 20; seed++ {
		single := AssignClusters(points, 2, rng.NewSeeded(seed))
		refined := RefineClusters(points, 2, 0, rng.NewSeeded(seed))

		assert.LessOrEqual(t, refined.Inertia, single.Inertia+1e-9, "seed %d", seed)
		assert.True(t, refined.Converged, "seed %d", seed)
		assert.LessOrEqual(t, refined.Iterations, DefaultMaxIterations)
	}
}

func TestRefineClusters_SeparatesBlobs(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	// seeds from different blobs make the partition exact after one refinement
	for seed := int64(1); seed <= 50; seed++ {
		res := RefineClusters(points, 2, 10, rng.NewSeeded(seed))
		if res.Assignments[0] == res.Assignments[2] {
			continue
		}
		assert.Equal(t, res.Assignments[0], res.Assignments[1])
		assert.Equal(t, res.Assignments[2], res.Assignments[3])
		assert.Equal(t, []int{2, 2}, res.Sizes)
		assert.InDelta(t, 1.0, res.Inertia, 1e-12)
		return
	}
	t.Fatal("no seed produced separated clusters")
}

func TestRefineClusters_IterationCap(t *testing.T) {
	points := twoBlobs(20, 4)
	res := RefineClusters(points, 4, 1, rng.NewSeeded(5))
	assert.Equal(t, 1, res.Iterations)
	assert.False(t, res.Converged)
}

func TestClusterRows_SkipsIncompleteAndMapsRows(t *testing.T) {
	rows := []Row{
		Record{"x": 1.0, "y": 1.0},
		Record{"x": 2.0},
		Record{"x": 3.0, "y": 5.0},
		Record{"x": math.NaN(), "y": 2.0},
		Record{"x": 5.0, "y": 9.0},
	}
	res := ClusterRows(rows, []string{"x", "y"}, 1, ClusterOptions{Iterate: true}, rng.NewSeeded(1))

	assert.Equal(t, []int{0, 2, 4}, res.Rows)
	assert.Len(t, res.Assignments, 3)
	require.Len(t, res.Centroids, 1)
	assert.InDelta(t, 3.0, res.Centroids[0][0], 1e-12)
	assert.InDelta(t, 5.0, res.Centroids[0][1], 1e-12)
}

func TestClusterRows_StandardizedCentroidsInOriginalUnits(t *testing.T) {
	rows := make([]Row, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, Record{"age": float64(20 + i), "risk": float64(i) * 0.1})
	}
	res := ClusterRows(rows, []string{"age", "risk"}, 1, ClusterOptions{Iterate: true, Standardize: true}, rng.NewSeeded(9))

	require.Len(t, res.Centroids, 1)
	assert.InDelta(t, 29.5, res.Centroids[0][0], 1e-9)
	assert.InDelta(t, 0.95, res.Centroids[0][1], 1e-9)
}

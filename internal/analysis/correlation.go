package analysis

import (
	"context"
	"runtime"

	"qisim/domain/stats"

	"golang.org/x/sync/errgroup"
)

// CorrelationCellFor computes r for one field pair over complete cases
func CorrelationCellFor(rows []Row, x, y string) stats.CorrelationCell {
	xs, ys := PairedColumns(rows, x, y)
	return stats.CorrelationCell{X: x, Y: y, R: Correlation(xs, ys), N: len(xs)}
}

// FieldPairs lists every unordered pair of distinct fields, in input order
func FieldPairs(fields []string) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			pairs = append(pairs, [2]string{fields[i], fields[j]})
		}
	}
	return pairs
}

// CorrelationMatrix computes every pairwise cell. Each pair uses its own complete
// cases, so N can differ between cells.
func CorrelationMatrix(rows []Row, fields []string) []stats.CorrelationCell {
	pairs := FieldPairs(fields)
	cells := make([]stats.CorrelationCell, len(pairs))
	for i, pair := range pairs {
		cells[i] = CorrelationCellFor(rows, pair[0], pair[1])
	}
	return cells
}

// CorrelationMatrixContext computes the same cells as CorrelationMatrix with pairs spread
// over at most GOMAXPROCS goroutines. It stops early and returns ctx's error on cancellation.
func CorrelationMatrixContext(ctx context.Context, rows []Row, fields []string) ([]stats.CorrelationCell, error) {
	pairs := FieldPairs(fields)
	cells := make([]stats.CorrelationCell, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cells[i] = CorrelationCellFor(rows, pair[0], pair[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

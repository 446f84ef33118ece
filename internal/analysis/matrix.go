package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// singularTolerance bounds both the determinant check and the smallest usable pivot
const singularTolerance = 1e-10

// designMatrix builds the n×(p+1) matrix with a leading intercept column
func designMatrix(cases [][]float64) *mat.Dense {
	n := len(cases)
	cols := 1
	if n > 0 {
		cols += len(cases[0])
	}
	x := mat.NewDense(n, cols, nil)
	for i, c := range cases {
		x.Set(i, 0, 1)
		for j, v := range c {
			x.Set(i, j+1, v)
		}
	}
	return x
}

// invertGaussJordan inverts a square matrix by Gauss-Jordan elimination with partial
// pivoting: each step pivots on the remaining row with the largest magnitude in the
// pivot column. If a pivot still falls below singularTolerance the elimination is
// abandoned and the identity is returned with ok == false.
func invertGaussJordan(m mat.Matrix) (inv *mat.Dense, ok bool) {
	size, _ := m.Dims()
	a := mat.DenseCopyOf(m)
	inv = identity(size)

	for col := 0; col < size; col++ {
		pivotRow := col
		pivotAbs := math.Abs(a.At(col, col))
		for r := col + 1; r < size; r++ {
			if v := math.Abs(a.At(r, col)); v > pivotAbs {
				pivotRow, pivotAbs = r, v
			}
		}
		if pivotAbs < singularTolerance {
			return identity(size), false
		}
		if pivotRow != col {
			swapRows(a, col, pivotRow)
			swapRows(inv, col, pivotRow)
		}

		pivot := a.At(col, col)
		scaleRow(a, col, 1/pivot)
		scaleRow(inv, col, 1/pivot)

		for r := 0; r < size; r++ {
			if r == col {
				continue
			}
			factor := a.At(r, col)
			if factor == 0 {
				continue
			}
			subtractRow(a, r, col, factor)
			subtractRow(inv, r, col, factor)
		}
	}
	return inv, true
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

func swapRows(m *mat.Dense, i, j int) {
	ri, rj := m.RawRowView(i), m.RawRowView(j)
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}

func scaleRow(m *mat.Dense, i int, f float64) {
	row := m.RawRowView(i)
	for k := range row {
		row[k] *= f
	}
}

// subtractRow sets row dst -= factor * row src
func subtractRow(m *mat.Dense, dst, src int, factor float64) {
	d, s := m.RawRowView(dst), m.RawRowView(src)
	for k := range d {
		d[k] -= factor * s[k]
	}
}

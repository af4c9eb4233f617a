package vnmo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var epsilon = math.Nextafter(1, 2) - 1

// rankTolerance is the relative singular value below which a direction of the
// polynomial matrix counts as missing.
const rankTolerance = 1e-10

// matrixSolve solves the n×n system a·x = b. a is row-major and is not
// modified.
func matrixSolve(a, b []float64, n int) ([]float64, error) {
	var lu mat.LU
	lu.Factorize(mat.NewDense(n, n, a))

	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, mat.NewVecDense(n, b)); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}

// matrixRank returns the numerical rank of the r×c row-major matrix x.
func matrixRank(x []float64, r, c int) int {
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(r, c, x), mat.SVDNone) {
		return 0
	}
	return svd.Rank(math.Max(float64(max(r, c))*epsilon, rankTolerance))
}

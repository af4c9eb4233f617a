package vnmo

import (
	"fmt"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"
)

// evalBudget caps the number of matrix elements built per evaluation chunk.
const evalBudget = 1 << 20

type kernelFunc func(r float64) float64

func linearKernel(r float64) float64 {
	return -r
}

var kernels = map[KernelType]kernelFunc{
	Linear: linearKernel,
}

// RBF is a radial basis function interpolant over (trace, time) with an
// optional low degree polynomial tail. It extrapolates through the
// polynomial and the kernel sum, so every finite query has a finite value.
type RBF struct {
	pos []vec3d.T

	Kernel    KernelType `json:"kernel"`
	Smoothing float64    `json:"smoothing"`
	Epsilon   float64    `json:"epsilon"`
	Degree    int        `json:"degree"`
	N         int        `json:"n"`

	W     []float64 `json:"w"`
	C     []float64 `json:"c"`
	Shift vec2d.T   `json:"shift"`
	Scale vec2d.T   `json:"scale"`

	kernel kernelFunc
}

func New(points []ControlPoint) *RBF {
	return &RBF{pos: ControlPoints(points).Positions()}
}

func monomialCount(degree int) int {
	if degree == 0 {
		return 1
	}
	return 3
}

// MinimumPoints is the smallest number of non-degenerate picks a fit with the
// given polynomial degree accepts.
func MinimumPoints(degree int) int {
	return max(monomialCount(degree), 2)
}

func (r *RBF) Train(opts Options) (*RBF, error) {
	p, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	r.Kernel = p.kernel
	r.Smoothing = p.smoothing
	r.Epsilon = p.epsilon
	r.Degree = p.degree
	r.kernel = kernels[p.kernel]
	r.W, r.C = nil, nil

	n := len(r.pos)
	m := monomialCount(r.Degree)
	need := MinimumPoints(r.Degree)
	if n < need {
		return nil, fmt.Errorf("%w: %s kernel with a degree %d polynomial needs at least %d control points, got %d",
			ErrInsufficientData, r.Kernel, r.Degree, need, n)
	}

	for i := range r.pos {
		for k := range r.pos[i] {
			if !isFinite(r.pos[i][k]) {
				return nil, fmt.Errorf("%w: control point %d is not finite", ErrMalformedInput, i)
			}
		}
	}

	r.Shift, r.Scale = r.polynomialFrame()

	P := make([]float64, n*m)
	for i := range r.pos {
		r.monomials(r.pos[i][0], r.pos[i][1], P[i*m:(i+1)*m])
	}
	if r.degenerate(P, n, m) {
		return nil, fmt.Errorf("%w: all %d control points are collinear or coincident, at least %d non-collinear points are required",
			ErrInsufficientData, n, need)
	}

	s := n + m
	A := make([]float64, s*s)
	for i := 0; i < n; i++ {
		pi := vec2d.T{r.pos[i][0], r.pos[i][1]}
		for j := 0; j < i; j++ {
			pj := vec2d.T{r.pos[j][0], r.pos[j][1]}
			A[i*s+j] = r.kernel(r.Epsilon * distance(pi, pj))
			A[j*s+i] = A[i*s+j]
		}
		A[i*s+i] = r.kernel(0) + r.Smoothing
		for k := 0; k < m; k++ {
			A[i*s+n+k] = P[i*m+k]
			A[(n+k)*s+i] = P[i*m+k]
		}
	}

	b := make([]float64, s)
	for i := range r.pos {
		b[i] = r.pos[i][2]
	}

	x, err := matrixSolve(A, b, s)
	if err != nil {
		return nil, fmt.Errorf("%w: interpolation system is singular: %v", ErrInsufficientData, err)
	}

	r.W = x[:n]
	r.C = x[n:]
	r.N = n

	return r, nil
}

func (r *RBF) degenerate(P []float64, n, m int) bool {
	if r.Degree > 0 {
		return matrixRank(P, n, m) < m
	}
	for i := 1; i < n; i++ {
		if r.pos[i][0] != r.pos[0][0] || r.pos[i][1] != r.pos[0][1] {
			return false
		}
	}
	return true
}

// polynomialFrame centres the polynomial tail on the picks' bounding box and
// scales it to unit half-width.
func (r *RBF) polynomialFrame() (shift, scale vec2d.T) {
	box := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	for i := range r.pos {
		v := vec2d.T{r.pos[i][0], r.pos[i][1]}
		box.Extend(&v)
	}
	for k := 0; k < 2; k++ {
		shift[k] = (box.Max[k] + box.Min[k]) / 2
		scale[k] = (box.Max[k] - box.Min[k]) / 2
		if scale[k] == 0 {
			scale[k] = 1
		}
	}
	return shift, scale
}

func (r *RBF) monomials(x, y float64, dst []float64) {
	dst[0] = 1
	if r.Degree > 0 {
		dst[1] = (x - r.Shift[0]) / r.Scale[0]
		dst[2] = (y - r.Shift[1]) / r.Scale[1]
	}
}

func (r *RBF) fillRow(q vec2d.T, row []float64) {
	for j := range r.pos {
		row[j] = r.kernel(r.Epsilon * distance(q, vec2d.T{r.pos[j][0], r.pos[j][1]}))
	}
	r.monomials(q[0], q[1], row[r.N:])
}

// Predict evaluates the fitted surface at a single (trace, time).
func (r *RBF) Predict(x, y float64) float64 {
	q := vec2d.T{x, y}
	v := 0.0
	for j := range r.pos {
		v += r.W[j] * r.kernel(r.Epsilon*distance(q, vec2d.T{r.pos[j][0], r.pos[j][1]}))
	}
	poly := make([]float64, len(r.C))
	r.monomials(x, y, poly)
	for k := range poly {
		v += r.C[k] * poly[k]
	}
	return v
}

// Evaluate computes the surface at every query in one batch, writing into dst
// when it is large enough. Work is split into chunks so the kernel matrix
// never exceeds evalBudget elements; the chunk buffer is allocated once.
func (r *RBF) Evaluate(queries Coordinates, dst []float64) []float64 {
	if cap(dst) < len(queries) {
		dst = make([]float64, len(queries))
	}
	dst = dst[:len(queries)]
	if len(queries) == 0 {
		return dst
	}

	s := r.N + len(r.C)
	rows := min(max(evalBudget/s, 1), len(queries))

	coef := mat.NewVecDense(s, append(append(make([]float64, 0, s), r.W...), r.C...))
	buf := mat.NewDense(rows, s, nil)

	for start := 0; start < len(queries); start += rows {
		end := min(start+rows, len(queries))
		k := end - start

		a := buf.Slice(0, k, 0, s).(*mat.Dense)
		for i := 0; i < k; i++ {
			r.fillRow(queries[start+i], a.RawRowView(i))
		}

		out := mat.NewVecDense(k, dst[start:end])
		out.MulVec(a, coef)
	}
	return dst
}

// Residuals returns recorded minus fitted velocity at each pick. They are
// non-zero whenever smoothing is positive.
func (r *RBF) Residuals() []float64 {
	res := make([]float64, len(r.pos))
	for i := range r.pos {
		res[i] = r.pos[i][2] - r.Predict(r.pos[i][0], r.pos[i][1])
	}
	return res
}

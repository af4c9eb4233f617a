package vnmo

import (
	"fmt"
	"math"
)

const (
	DefaultKernel    = Linear
	DefaultSmoothing = 10.0
	DefaultEpsilon   = 1.0
	DefaultDegree    = 1
)

// Options tunes the interpolator. Nil fields take the defaults above.
type Options struct {
	Kernel    *KernelType
	Smoothing *float64
	Epsilon   *float64
	Degree    *int
}

type params struct {
	kernel    KernelType
	smoothing float64
	epsilon   float64
	degree    int
}

func (o Options) resolve() (params, error) {
	p := params{
		kernel:    DefaultKernel,
		smoothing: DefaultSmoothing,
		epsilon:   DefaultEpsilon,
		degree:    DefaultDegree,
	}

	if o.Kernel != nil {
		p.kernel = *o.Kernel
	}
	if o.Smoothing != nil {
		p.smoothing = *o.Smoothing
	}
	if o.Epsilon != nil {
		p.epsilon = *o.Epsilon
	}
	if o.Degree != nil {
		p.degree = *o.Degree
	}

	if _, ok := kernels[p.kernel]; !ok {
		return p, fmt.Errorf("%w: %q", ErrUnsupportedKernel, p.kernel)
	}
	if p.smoothing < 0 || math.IsNaN(p.smoothing) || math.IsInf(p.smoothing, 0) {
		return p, fmt.Errorf("%w: smoothing must be a finite non-negative number, got %g", ErrInvalidOption, p.smoothing)
	}
	if !(p.epsilon > 0) || math.IsInf(p.epsilon, 0) {
		return p, fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidOption, p.epsilon)
	}
	if p.degree < 0 || p.degree > 1 {
		return p, fmt.Errorf("%w: polynomial degree must be 0 or 1, got %d", ErrInvalidOption, p.degree)
	}
	return p, nil
}

func ParseKernel(s string) (KernelType, error) {
	k := KernelType(s)
	if _, ok := kernels[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKernel, s)
	}
	return k, nil
}

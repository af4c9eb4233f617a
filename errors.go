package vnmo

import "errors"

var (
	ErrInvalidBounds     = errors.New("invalid grid bounds")
	ErrMalformedInput    = errors.New("malformed input")
	ErrInsufficientData  = errors.New("insufficient control points")
	ErrDegenerateFit     = errors.New("degenerate fit: non-finite velocities")
	ErrUnsupportedKernel = errors.New("unsupported kernel")
	ErrInvalidOption     = errors.New("invalid option")
)

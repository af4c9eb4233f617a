package vnmo

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

func pow2(x float64) float64 {
	return x * x
}

func distance(a, b vec2d.T) float64 {
	return math.Sqrt(pow2(a[0]-b[0]) + pow2(a[1]-b[1]))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func countNonFinite(s []float64) int {
	n := 0
	for _, v := range s {
		if !isFinite(v) {
			n++
		}
	}
	return n
}

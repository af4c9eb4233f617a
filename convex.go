package vnmo

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Convex is the convex hull of a set of picks in (trace, time). Grid nodes
// outside it are extrapolated rather than interpolated.
type Convex struct {
	vertices []vec2d.T
	hull     []vec2d.T
	edges    []Edge
}

type Edge struct {
	Start vec2d.T
	End   vec2d.T
}

func NewConvex(points []ControlPoint) *Convex {
	vertices := make([]vec2d.T, len(points))
	for i := range points {
		vertices[i] = points[i].Position()
	}
	return &Convex{vertices: vertices}
}

func (c *Convex) Rect() vec2d.Rect {
	r := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	for i := range c.Hull() {
		r.Extend(&c.hull[i])
	}
	return r
}

func (c *Convex) Hull() []vec2d.T {
	if c.hull == nil {
		if len(c.vertices) == 0 {
			c.hull = []vec2d.T{}
			return c.hull
		}
		minX, maxX := c.getExtremePoints()
		if minX == maxX {
			c.hull = []vec2d.T{minX}
			return c.hull
		}
		c.hull = append(c.quickHull(c.vertices, maxX, minX), c.quickHull(c.vertices, minX, maxX)...)
	}

	return c.hull
}

func (c *Convex) Edges() []Edge {
	if c.edges == nil {
		hull := c.Hull()
		for i, start := range hull {
			nextIndex := i + 1
			if len(hull) <= nextIndex {
				nextIndex = 0
			}
			c.edges = append(c.edges, Edge{start, hull[nextIndex]})
		}
	}
	return c.edges
}

// InHull reports whether point lies inside the hull or on its boundary. Hulls
// with fewer than three vertices enclose no area and contain nothing.
func (c *Convex) InHull(point vec2d.T) bool {
	if len(c.Hull()) < 3 {
		return false
	}
	var left, right bool
	for _, edge := range c.Edges() {
		switch s := Cross(Subtract(edge.End, edge.Start), Subtract(point, edge.Start)); {
		case s > 0:
			left = true
		case s < 0:
			right = true
		}
		if left && right {
			return false
		}
	}
	return true
}

func (c *Convex) quickHull(points []vec2d.T, start, end vec2d.T) []vec2d.T {
	lhs, farthestPoint := c.getLhsPoints(points, start, end)
	if len(lhs) == 0 {
		return []vec2d.T{end}
	}

	return append(
		c.quickHull(lhs, farthestPoint, end),
		c.quickHull(lhs, start, farthestPoint)...)
}

func Subtract(lhs, rhs vec2d.T) vec2d.T {
	return vec2d.T{lhs[0] - rhs[0], lhs[1] - rhs[1]}
}

func Cross(lhs, rhs vec2d.T) float64 {
	return (lhs[0] * rhs[1]) - (lhs[1] * rhs[0])
}

func OnTheRight(v vec2d.T, o vec2d.T) bool {
	return Cross(v, o) < 0
}

func (c *Convex) getExtremePoints() (minX, maxX vec2d.T) {
	minX = vec2d.T{math.MaxFloat64, 0}
	maxX = vec2d.T{-math.MaxFloat64, 0}

	for _, p := range c.vertices {
		if p[0] < minX[0] || (p[0] == minX[0] && p[1] < minX[1]) {
			minX = p
		}

		if maxX[0] < p[0] || (p[0] == maxX[0] && p[1] > maxX[1]) {
			maxX = p
		}
	}

	return minX, maxX
}

// getLhsPoints keeps the points strictly left of start→end, in input order,
// and returns the one farthest from the line. Ties go to the first seen.
func (c *Convex) getLhsPoints(points []vec2d.T, start, end vec2d.T) (lhs []vec2d.T, farthestPoint vec2d.T) {
	maxDistanceIndicator := 0.0
	vLine := vec2d.Sub(&end, &start)

	for _, point := range points {
		vPoint := vec2d.Sub(&point, &start)
		distanceIndicator := Cross(vLine, vPoint)
		if distanceIndicator > 0 {
			lhs = append(lhs, point)
			if maxDistanceIndicator < distanceIndicator {
				maxDistanceIndicator = distanceIndicator
				farthestPoint = point
			}
		}
	}

	return lhs, farthestPoint
}

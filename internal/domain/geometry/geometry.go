package geometry

import "math"

// Point is an integer cell coordinate on a square board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether p lies inside a size×size board.
func (p Point) InBounds(size int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < size && p.Y < size
}

// IsCollinear reports whether any three of the given points lie on a single
// straight line. It returns false for fewer than three points.
//
// Every combination of three distinct points is tested with the cross-product
// condition (bx-ax)(cy-ay) == (by-ay)(cx-ax); the first match short-circuits.
// Cost is cubic in len(points).
func IsCollinear(points []Point) bool {
	n := len(points)
	if n < 3 {
		return false
	}

	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				if collinear(points[i], points[j], points[k]) {
					return true
				}
			}
		}
	}

	return false
}

func collinear(a, b, c Point) bool {
	return (b.X-a.X)*(c.Y-a.Y) == (b.Y-a.Y)*(c.X-a.X)
}

// Distance returns the Euclidean distance between two cells.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}

// NearestDistance returns the smallest distance from p to any of targets.
// It returns +Inf when targets is empty.
func NearestDistance(p Point, targets []Point) float64 {
	best := math.Inf(1)
	for _, t := range targets {
		if d := Distance(p, t); d < best {
			best = d
		}
	}
	return best
}

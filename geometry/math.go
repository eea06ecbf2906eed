// Package geometry holds the scalar and vector primitives used by the layout
// engine and by renderers: products, distances, quadrant-correct angles,
// convex hulls and the curves drawn for condition links.
package geometry

import (
	"math"

	"github.com/quartercastle/vector"
	"golang.org/x/exp/constraints"
)

// Point is a 2D position. Only the first two components are ever used.
type Point = vector.Vector

// Circle is a node outline.
type Circle struct {
	Center Point
	R      float64
}

func P(x, y float64) Point {
	return Point{x, y}
}

func Dot(ax, ay, bx, by float64) float64 {
	return ax*bx + ay*by
}

// Cross returns the z component of (ax, ay, 0) x (bx, by, 0). Positive values
// mean b is counter-clockwise of a (in a y-up frame).
func Cross(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}

func Distance(ax, ay, bx, by float64) float64 {
	return math.Sqrt((ax-bx)*(ax-bx) + (ay-by)*(ay-by))
}

// Angle returns the direction of (dx, dy) in [0, 2π). Angle(0, 0) is 0.
func Angle(dy, dx float64) float64 {
	if dx == 0 {
		switch {
		case dy > 0:
			return math.Pi / 2
		case dy < 0:
			return 3 * math.Pi / 2
		default:
			return 0
		}
	}
	theta := math.Atan(dy / dx)
	if dx < 0 {
		theta += math.Pi
	} else if dy < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// Asin returns the angle whose sine is dy/hypotenuse, mirrored to the left half
// plane when dx is negative. A zero hypotenuse yields 0.
func Asin(dx, dy, hypotenuse float64) float64 {
	if hypotenuse == 0 {
		return 0
	}
	theta := math.Asin(Clamp(dy/hypotenuse, -1, 1))
	if dx < 0 {
		theta = math.Pi - theta
	}
	return theta
}

func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// DistanceP is Distance for two points.
func DistanceP(a, b Point) float64 {
	return Distance(a.X(), a.Y(), b.X(), b.Y())
}

// ClipChord returns where the segment between the two centers leaves circle a
// and enters circle b. ok is false for coincident centers.
func ClipChord(a, b Circle) (start, end Point, ok bool) {
	dx, dy := b.Center.X()-a.Center.X(), b.Center.Y()-a.Center.Y()
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return a.Center, b.Center, false
	}
	start = Point{a.Center.X() + a.R*dx/dist, a.Center.Y() + a.R*dy/dist}
	end = Point{b.Center.X() - b.R*dx/dist, b.Center.Y() - b.R*dy/dist}
	return start, end, true
}

// Clamp limits in to [lo, hi]. NaN passes through.
func Clamp[T constraints.Float](in, lo, hi T) T {
	if in != in {
		return in
	}
	if in > hi {
		return hi
	} else if in < lo {
		return lo
	}
	return in
}

package geometry

import (
	"math"

	"golang.org/x/exp/slices"
)

// ConvexHull computes the convex hull of points with a Graham scan. Up to three
// points are returned unchanged. The input slice is never reordered.
func ConvexHull(points []Point) []Point {
	pts := make([]Point, len(points))
	copy(pts, points)
	if len(pts) <= 3 {
		return pts
	}
	// pivot: smallest x, then smallest y
	minI := 0
	for i := range pts {
		if pts[i].X() < pts[minI].X() || (pts[i].X() == pts[minI].X() && pts[i].Y() < pts[minI].Y()) {
			minI = i
		}
	}
	pts[0], pts[minI] = pts[minI], pts[0]
	first := pts[0]
	rest := pts[1:]
	slices.SortFunc(rest, func(a, b Point) int {
		crossZ := Cross(a.X()-first.X(), a.Y()-first.Y(), b.X()-first.X(), b.Y()-first.Y())
		if crossZ == 0 {
			da := Distance(a.X(), a.Y(), first.X(), first.Y())
			db := Distance(b.X(), b.Y(), first.X(), first.Y())
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return 0
		}
		if crossZ > 0 {
			return -1
		}
		return 1
	})
	stack := []Point{pts[0], pts[1]}
	for i := 2; i < len(pts); i++ {
		r := pts[i]
		for len(stack) > 1 {
			p, q := stack[len(stack)-2], stack[len(stack)-1]
			if Cross(q.X()-p.X(), q.Y()-p.Y(), r.X()-q.X(), r.Y()-q.Y()) >= 0 {
				break
			}
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, r)
	}
	return stack
}

// EnclosingCircle returns a circle around the hull: the polygon centroid as
// center and the farthest vertex as radius. Degenerate (zero area) polygons
// use the mean of the vertices instead of the centroid.
func EnclosingCircle(hull []Point) Circle {
	switch len(hull) {
	case 0:
		return Circle{Center: Point{0, 0}}
	case 1:
		return Circle{Center: Point{hull[0].X(), hull[0].Y()}}
	case 2:
		a, b := hull[0], hull[1]
		return Circle{
			Center: Point{(a.X() + b.X()) / 2, (a.Y() + b.Y()) / 2},
			R:      DistanceP(a, b) / 2,
		}
	}
	var area, xNum, yNum float64
	a := hull[len(hull)-1]
	for i := len(hull) - 2; i >= 1; i-- {
		b, c := hull[i], hull[i-1]
		t := ((b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())) / 2
		xNum += t * (a.X() + b.X() + c.X())
		yNum += t * (a.Y() + b.Y() + c.Y())
		area += t
	}
	var x, y float64
	if math.Abs(area) < 1e-9 {
		for _, p := range hull {
			x += p.X()
			y += p.Y()
		}
		x /= float64(len(hull))
		y /= float64(len(hull))
	} else {
		x, y = xNum/(area*3), yNum/(area*3)
	}
	r := 0.0
	for _, p := range hull {
		r = math.Max(r, Distance(x, y, p.X(), p.Y()))
	}
	return Circle{Center: Point{x, y}, R: r}
}

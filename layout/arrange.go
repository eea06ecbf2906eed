package layout

import (
	"math"

	"github.com/quartercastle/vector"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
	"golang.org/x/exp/slices"
)

// growth widens the links of a node whose children do not fit into its fan.
const growth = 1.1

// arrangement is the layout of a subtree in the frame of its root: the root
// sits at the origin and its parent lies toward -x.
type arrangement struct {
	children []placement
	// bound contains every circle of the subtree grown by half the clearance.
	bound geometry.Circle
}

// placement puts a child at distance along angle, both relative to the frame
// of its parent.
type placement struct {
	id       tree.NodeID
	angle    float64
	distance float64
}

// cone is a child subtree seen from its parent. Subtrees in disjoint cones
// never overlap, since every bound is kept clear of the parent circle.
type cone struct {
	placement
	bound geometry.Circle
	// rho is the distance of the bound center from the parent, beta the half
	// angle under which the bound is seen.
	rho, beta float64
}

// arrange moves every visible node except the root of s to a position free of
// overlaps. Subtrees are laid out bottom-up, each child subtree in its own
// cone around the parent, fanned away from the grandparent. Leaf clusters
// get the fixed rigid fan of Clusterize. The current angular order of
// siblings is kept.
func arrange(conf Config, s *snapshot) {
	plans := make(map[tree.NodeID]arrangement, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		plans[id] = arrangeChildren(conf, s, id, plans)
	}
	heading := map[tree.NodeID]float64{s.root: math.Pi / 2}
	for _, id := range s.order {
		pos, dir := s.nodes[id].Pos, heading[id]
		for _, p := range plans[id].children {
			a := dir + p.angle
			s.setPos(p.id, vector.Vector{pos.X() + p.distance*math.Cos(a), pos.Y() + p.distance*math.Sin(a)})
			heading[p.id] = a
		}
	}
}

func arrangeChildren(conf Config, s *snapshot, id tree.NodeID, plans map[tree.NodeID]arrangement) arrangement {
	n := s.nodes[id]
	half := conf.MinClearance/2 + settleEpsilon
	circles := []geometry.Circle{{Center: vector.Vector{0, 0}, R: n.R + half}}
	plan := arrangement{}

	inner := n.R + half
	leaves := clusterLeaves(conf, s, id)
	clustered := make(map[tree.NodeID]bool, len(leaves))
	if len(leaves) > 0 {
		leafR := maxRadius(s, leaves)
		linkLength, angles := leafFan(conf, n.R, leafR, len(leaves), n.IsRoot())
		for j, leaf := range leaves {
			a := angles[j]
			clustered[leaf] = true
			plan.children = append(plan.children, placement{id: leaf, angle: a, distance: linkLength})
			circles = append(circles, geometry.Circle{
				Center: vector.Vector{linkLength * math.Cos(a), linkLength * math.Sin(a)},
				R:      s.nodes[leaf].R + half,
			})
		}
		// all other children stay outside the leaves
		inner = math.Max(inner, linkLength+leafR+half)
	}

	siblings := len(s.children(id))
	cones := []*cone{}
	for _, c := range siblingOrder(s, id) {
		if clustered[c] {
			continue
		}
		child := s.nodes[c]
		base := n.R + conf.EdgeLength + child.R
		if siblings >= 2 {
			base = math.Max(base, (child.R+conf.MinClearance/2)/math.Sin(math.Pi/float64(siblings)))
		}
		bound := plans[c].bound
		reach := math.Sqrt(math.Max(0, sq(inner+bound.R)-sq(bound.Center.Y()))) - bound.Center.X()
		cones = append(cones, &cone{
			placement: placement{id: c, distance: math.Max(base, reach)},
			bound:     bound,
		})
	}

	span := 3 * math.Pi / 2
	if n.IsRoot() {
		span = 2 * math.Pi
	}
	total := fitCones(cones)
	for total > span {
		for _, c := range cones {
			c.distance *= growth
		}
		total = fitCones(cones)
	}
	start := -total / 2
	for _, c := range cones {
		psi := start + c.beta
		start += 2 * c.beta
		c.angle = psi - math.Atan2(c.bound.Center.Y(), c.distance+c.bound.Center.X())
		plan.children = append(plan.children, c.placement)
		circles = append(circles, geometry.Circle{
			Center: vector.Vector{c.rho * math.Cos(psi), c.rho * math.Sin(psi)},
			R:      c.bound.R,
		})
	}
	plan.bound = enclose(circles)
	return plan
}

// fitCones updates rho and beta of every cone and returns the angle they take
// up side by side.
func fitCones(cones []*cone) float64 {
	total := 0.0
	for _, c := range cones {
		c.rho = math.Hypot(c.distance+c.bound.Center.X(), c.bound.Center.Y())
		c.beta = math.Asin(geometry.Clamp(c.bound.R/c.rho, -1, 1))
		total += 2 * c.beta
	}
	return total
}

// siblingOrder returns the visible children of id sorted by their current
// direction, measured from the direction away from the parent of id. Ties keep
// the insertion order.
func siblingOrder(s *snapshot, id tree.NodeID) []tree.NodeID {
	n := s.nodes[id]
	heading := math.Pi / 2
	if !n.IsRoot() {
		parent := s.nodes[n.Parent]
		if dx, dy := n.Pos.X()-parent.Pos.X(), n.Pos.Y()-parent.Pos.Y(); math.Hypot(dx, dy) > coincidenceEpsilon {
			heading = geometry.Angle(dy, dx)
		}
	}
	relative := map[tree.NodeID]float64{}
	for _, c := range s.children(id) {
		dx, dy := s.nodes[c].Pos.X()-n.Pos.X(), s.nodes[c].Pos.Y()-n.Pos.Y()
		if math.Hypot(dx, dy) > coincidenceEpsilon {
			relative[c] = math.Remainder(geometry.Angle(dy, dx)-heading, 2*math.Pi)
		}
	}
	order := slices.Clone(s.children(id))
	slices.SortStableFunc(order, func(a, b tree.NodeID) int {
		switch {
		case relative[a] < relative[b]:
			return -1
		case relative[a] > relative[b]:
			return 1
		}
		return 0
	})
	return order
}

// enclose returns a circle containing all circles, centered on their
// bounding box.
func enclose(circles []geometry.Circle) geometry.Circle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range circles {
		minX, maxX = math.Min(minX, c.Center.X()-c.R), math.Max(maxX, c.Center.X()+c.R)
		minY, maxY = math.Min(minY, c.Center.Y()-c.R), math.Max(maxY, c.Center.Y()+c.R)
	}
	center := vector.Vector{(minX + maxX) / 2, (minY + maxY) / 2}
	r := 0.0
	for _, c := range circles {
		r = math.Max(r, geometry.DistanceP(center, c.Center)+c.R)
	}
	return geometry.Circle{Center: center, R: r}
}

func maxRadius(s *snapshot, ids []tree.NodeID) float64 {
	r := 0.0
	for _, id := range ids {
		r = math.Max(r, s.nodes[id].R)
	}
	return r
}

func sq(v float64) float64 {
	return v * v
}

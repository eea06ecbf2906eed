// adapted from https://github.com/jwhandley/graphyz/blob/main/quadtree.go
package layout

import (
	"math"

	"github.com/quartercastle/vector"
)

// Body is a point charge as seen by the charge force.
type Body interface {
	strength() float64
	position() vector.Vector
}

type QuadTreeConfig struct {
	CapacityOfEachBlock int
	// MaxDepth stops subdividing, so that any number of bodies at the same
	// location end up in one block.
	MaxDepth int
}

var QUADTREE_DEFAULT_CONFIG = QuadTreeConfig{CapacityOfEachBlock: 10, MaxDepth: 24}

type QuadTree struct {
	Center      vector.Vector
	TotalCharge float64
	Region      Rect
	Bodies      []Body
	Children    [4]*QuadTree
	config      *QuadTreeConfig
}

type Rect struct {
	X, Y, Width, Height float64
}

func (r *Rect) Contains(pos vector.Vector) bool {
	return pos.X() >= r.X && pos.X() <= r.X+r.Width && pos.Y() >= r.Y && pos.Y() <= r.Y+r.Height
}

func (r Rect) Center() vector.Vector {
	return vector.Vector{r.X + r.Width/2, r.Y + r.Height/2}
}

// boundingSquare returns the smallest square containing all bodies, padded
// by 1 on every side.
func boundingSquare[B Body](bodies []B) Rect {
	if len(bodies) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(+1), math.Inf(+1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		p := b.position()
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	side := math.Max(maxX-minX, maxY-minY) + 2
	return Rect{X: minX - 1, Y: minY - 1, Width: side, Height: side}
}

func NewQuadTree(config *QuadTreeConfig, boundary Rect) *QuadTree {
	if config == nil {
		config = &QUADTREE_DEFAULT_CONFIG
	}
	return &QuadTree{
		Center: vector.Vector{0, 0},
		Region: boundary,
		Bodies: make([]Body, 0, config.CapacityOfEachBlock),
		config: config,
	}
}

// Reset empties the tree and sets a new region.
func (qt *QuadTree) Reset(boundary Rect) {
	qt.Region = boundary
	qt.Center = vector.Vector{0, 0}
	qt.Bodies = qt.Bodies[:0]
	for i := range qt.Children {
		qt.Children[i] = nil
	}
	qt.TotalCharge = 0
}

func (qt *QuadTree) Insert(b Body) bool {
	return qt.insert(b, 0)
}

func (qt *QuadTree) insert(b Body, depth int) bool {
	if !qt.Region.Contains(b.position()) {
		return false
	}
	if qt.Children[0] == nil {
		if len(qt.Bodies) < qt.config.CapacityOfEachBlock || depth >= qt.config.MaxDepth {
			qt.Bodies = append(qt.Bodies, b)
			return true
		}
		qt.subdivide(depth)
	}
	for _, child := range qt.Children {
		if child.insert(b, depth+1) {
			return true
		}
	}
	return false
}

func (qt *QuadTree) subdivide(depth int) {
	midX := qt.Region.X + qt.Region.Width/2
	midY := qt.Region.Y + qt.Region.Height/2
	halfWidth := qt.Region.Width / 2
	halfHeight := qt.Region.Height / 2

	qt.Children[0] = NewQuadTree(qt.config, Rect{X: qt.Region.X, Y: qt.Region.Y, Width: halfWidth, Height: halfHeight}) // Top Left
	qt.Children[1] = NewQuadTree(qt.config, Rect{X: midX, Y: qt.Region.Y, Width: halfWidth, Height: halfHeight})        // Top right
	qt.Children[2] = NewQuadTree(qt.config, Rect{X: qt.Region.X, Y: midY, Width: halfWidth, Height: halfHeight})        // Bottom Left
	qt.Children[3] = NewQuadTree(qt.config, Rect{X: midX, Y: midY, Width: halfWidth, Height: halfHeight})               // Bottom Right

	bodies := qt.Bodies
	qt.Bodies = nil
	for _, b := range bodies {
		for _, child := range qt.Children {
			if child.insert(b, depth+1) {
				break
			}
		}
	}
}

// CalculateCharges aggregates the charge and its weighted center for every
// block. Empty blocks keep a zero charge.
func (qt *QuadTree) CalculateCharges() {
	qt.TotalCharge = 0
	qt.Center = vector.Vector{0, 0}
	if qt.Children[0] == nil {
		for _, b := range qt.Bodies {
			qt.TotalCharge += b.strength()
			vector.In(qt.Center).Add(b.position().Scale(b.strength()))
		}
	} else {
		for _, child := range qt.Children {
			child.CalculateCharges()
			qt.TotalCharge += child.TotalCharge
			vector.In(qt.Center).Add(child.Center.Scale(child.TotalCharge))
		}
	}
	if qt.TotalCharge != 0 {
		vector.In(qt.Center).Scale(1 / qt.TotalCharge)
	}
}

// CalculateForce adds the charge force acting on b to force. Blocks farther
// away than their width / theta, and not containing b, are approximated by
// their aggregated charge.
func (qt *QuadTree) CalculateForce(force vector.Vector, b Body, theta, alpha float64) {
	if qt.TotalCharge == 0 {
		return
	}
	if qt.Children[0] == nil {
		for _, other := range qt.Bodies {
			if other == b {
				continue
			}
			addCharge(force, b.position(), other.position(), other.strength(), alpha)
		}
		return
	}
	pos := b.position()
	d := math.Hypot(pos.X()-qt.Center.X(), pos.Y()-qt.Center.Y())
	if d > 0 && qt.Region.Width/d < theta && !qt.Region.Contains(pos) {
		addCharge(force, pos, qt.Center, qt.TotalCharge, alpha)
		return
	}
	for _, child := range qt.Children {
		child.CalculateForce(force, b, theta, alpha)
	}
}

func (qt *QuadTree) strength() float64 {
	return qt.TotalCharge
}

func (qt *QuadTree) position() vector.Vector {
	return qt.Center
}

// chargeDistanceMin2 bounds the squared distance used by the charge force,
// so that nearly coincident bodies do not blow up.
const chargeDistanceMin2 = 1.0

// addCharge adds the repulsion of a charge of strength at from, acting on a
// body at at: |force| = strength * alpha / distance. Coincident points are
// skipped.
func addCharge(force, at, from vector.Vector, strength, alpha float64) {
	dx, dy := at[0]-from[0], at[1]-from[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return
	}
	if l2 < chargeDistanceMin2 {
		l2 = chargeDistanceMin2
	}
	k := strength * alpha / l2
	force[0] += dx * k
	force[1] += dy * k
}

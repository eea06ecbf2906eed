package layout

import (
	"math"

	"github.com/pkg/errors"
	"github.com/quartercastle/vector"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
)

// ChildPosition seeds the position of a new child with radius r, exactly
// parent.R + edgeLength + r away from the parent center. Children of the root
// (grandparent == nil) go straight down, all others continue the ray from
// the grandparent through the parent.
func ChildPosition(parent geometry.Circle, grandparent *vector.Vector, r, edgeLength float64) vector.Vector {
	dist := parent.R + edgeLength + r
	dir := vector.Vector{0, 1}
	if grandparent != nil {
		away := parent.Center.Sub(*grandparent)
		if l := away.Magnitude(); l > 0 && !math.IsNaN(l) {
			dir = away.Scale(1 / l)
		}
	}
	return parent.Center.Add(dir.Scale(dist))
}

// SeedChild is ChildPosition for a child of parent in t.
func SeedChild(t *tree.Tree, parent tree.NodeID, r, edgeLength float64) (vector.Vector, error) {
	p, ok := t.Node(parent)
	if !ok {
		return nil, errors.Wrapf(tree.ErrNodeNotFound, "parent %d", parent)
	}
	var grandparent *vector.Vector
	if !p.IsRoot() {
		gp, _ := t.Node(p.Parent)
		grandparent = &gp.Pos
	}
	return ChildPosition(p.Circle(), grandparent, r, edgeLength), nil
}

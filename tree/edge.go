package tree

import (
	"github.com/quartercastle/vector"
	"github.com/suxatcode/mindtree/geometry"
)

// Edge is the derived link between a visible parent and child. Start and End
// are clipped to the circle outlines.
type Edge struct {
	Source, Target NodeID
	Start, End     vector.Vector
}

func (n Node) Circle() geometry.Circle {
	return geometry.Circle{Center: n.Pos, R: n.R}
}

// Edges derives all visible parent/child edges. Pairs with coincident centers
// have no outline chord and are left out.
func (t *Tree) Edges() []Edge {
	visible := t.Visible()
	byID := make(map[NodeID]Node, len(visible))
	for _, n := range visible {
		byID[n.ID] = n
	}
	edges := []Edge{}
	for _, n := range visible {
		if n.ChildrenWrapped {
			continue
		}
		for _, c := range n.Children {
			child := byID[c]
			start, end, ok := geometry.ClipChord(n.Circle(), child.Circle())
			if !ok {
				continue
			}
			edges = append(edges, Edge{Source: n.ID, Target: c, Start: start, End: end})
		}
	}
	return edges
}

// NodeAt returns the first visible node whose circle contains (x, y).
func (t *Tree) NodeAt(x, y float64) (Node, bool) {
	for _, n := range t.Visible() {
		if geometry.Distance(n.Pos.X(), n.Pos.Y(), x, y) <= n.R {
			return n, true
		}
	}
	return Node{}, false
}

package layout

import (
	"math"

	"github.com/quartercastle/vector"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
)

// coincidenceEpsilon is the distance below which two centers are treated as
// one point.
const coincidenceEpsilon = 1e-6

// snapshot is the visible part of a tree, in breadth first order.
type snapshot struct {
	root  tree.NodeID
	order []tree.NodeID
	nodes map[tree.NodeID]tree.Node
}

func newSnapshot(t *tree.Tree) *snapshot {
	visible := t.Visible()
	s := &snapshot{
		root:  t.Root,
		order: make([]tree.NodeID, 0, len(visible)),
		nodes: make(map[tree.NodeID]tree.Node, len(visible)),
	}
	for _, n := range visible {
		s.order = append(s.order, n.ID)
		s.nodes[n.ID] = n
	}
	return s
}

// children lists the visible children of id.
func (s *snapshot) children(id tree.NodeID) []tree.NodeID {
	n := s.nodes[id]
	if n.ChildrenWrapped {
		return nil
	}
	return n.Children
}

// isLeaf is true for nodes without visible children, collapsed nodes
// included.
func (s *snapshot) isLeaf(id tree.NodeID) bool {
	return len(s.children(id)) == 0
}

func (s *snapshot) setPos(id tree.NodeID, pos vector.Vector) {
	n := s.nodes[id]
	n.Pos = pos
	s.nodes[id] = n
}

// Cluster is a node together with its leaf children, simulated as a single
// rigid particle.
type Cluster struct {
	Owner  tree.NodeID
	Leaves []tree.NodeID
	// Hull is the convex hull of the member centers, Circle its enclosing
	// circle.
	Hull   []vector.Vector
	Circle geometry.Circle
	// Radius of the particle, large enough to contain every member circle.
	Radius float64
	// Offsets maps each member to its center relative to Circle.Center.
	Offsets map[tree.NodeID]vector.Vector
	// LinkLength is the owner to leaf center distance.
	LinkLength float64
}

// Members returns the owner followed by the leaves.
func (c *Cluster) Members() []tree.NodeID {
	return append([]tree.NodeID{c.Owner}, c.Leaves...)
}

// Clusterize groups every visible node having more than
// conf.ClusterMinLeaves visible leaf children with those leaves. The tree is
// arranged first, so the leaves lie around the owner, fanned away from the
// owner's parent, or on a full ring starting straight down for the root.
func Clusterize(conf Config, t *tree.Tree) []*Cluster {
	conf = ApplyConfig(conf)
	s := newSnapshot(t)
	arrange(conf, s)
	return clusterize(conf, s)
}

// clusterize builds a cluster for every leaf-heavy node of the arranged
// snapshot s.
func clusterize(conf Config, s *snapshot) []*Cluster {
	clusters := []*Cluster{}
	for _, id := range s.order {
		if leaves := clusterLeaves(conf, s, id); len(leaves) > 0 {
			clusters = append(clusters, newCluster(conf, s, id, leaves))
		}
	}
	return clusters
}

// clusterLeaves returns the visible leaf children of id, or nil if there are
// not more than conf.ClusterMinLeaves of them.
func clusterLeaves(conf Config, s *snapshot, id tree.NodeID) []tree.NodeID {
	leaves := []tree.NodeID{}
	for _, c := range s.children(id) {
		if s.isLeaf(c) {
			leaves = append(leaves, c)
		}
	}
	if len(leaves) <= conf.ClusterMinLeaves {
		return nil
	}
	return leaves
}

// leafFan returns the owner to leaf distance of k leaves of radius up to
// leafR around an owner of radius r, and the direction of every leaf relative
// to the direction away from the owner's parent. A ring spreads the leaves
// over the full circle.
func leafFan(conf Config, r, leafR float64, k int, ring bool) (float64, []float64) {
	half := leafR + conf.MinClearance/2
	linkLength := math.Max(
		r+math.Max(conf.EdgeLength, conf.MinClearance)+leafR,
		half/math.Sin(math.Pi/float64(k)),
	)
	base, step := 0.0, 2*math.Pi/float64(k)
	if !ring {
		step = 2 * math.Asin(geometry.Clamp(half/linkLength, -1, 1))
		base = -step * float64(k-1) / 2
	}
	angles := make([]float64, k)
	for j := range angles {
		angles[j] = base + float64(j)*step
	}
	return linkLength, angles
}

func newCluster(conf Config, s *snapshot, owner tree.NodeID, leaves []tree.NodeID) *Cluster {
	n := s.nodes[owner]
	leafR := maxRadius(s, leaves)
	linkLength, _ := leafFan(conf, n.R, leafR, len(leaves), n.IsRoot())
	positions := map[tree.NodeID]vector.Vector{owner: n.Pos}
	points := []vector.Vector{n.Pos}
	for _, id := range leaves {
		pos := s.nodes[id].Pos
		positions[id] = pos
		points = append(points, pos)
	}
	hull := geometry.ConvexHull(points)
	circle := geometry.EnclosingCircle(hull)
	c := &Cluster{
		Owner:      owner,
		Leaves:     leaves,
		Hull:       hull,
		Circle:     circle,
		Radius:     circle.R + math.Max(n.R, leafR),
		Offsets:    make(map[tree.NodeID]vector.Vector, len(positions)),
		LinkLength: linkLength,
	}
	for id, pos := range positions {
		c.Offsets[id] = pos.Sub(circle.Center)
	}
	return c
}

package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/quartercastle/vector"
	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
)

// randomTree adds nodes children with radii in [minR, maxR) below random
// parents, each at its seed position.
func randomTree(t *testing.T, rng *rand.Rand, nodes int, minR, maxR float64) (*tree.Tree, []tree.NodeID) {
	tr := tree.New(tree.Geometry{X: 0, Y: 0, R: 30}, tree.DefaultStyle)
	ids := []tree.NodeID{tr.Root}
	for i := 0; i < nodes; i++ {
		parent := ids[rng.Intn(len(ids))]
		ids = append(ids, addChild(t, tr, parent, minR+(maxR-minR)*rng.Float64()))
	}
	return tr, ids
}

func assertArrangedWithoutOverlap(t *testing.T, s *snapshot) {
	for i, a := range s.order {
		for _, b := range s.order[i+1:] {
			na, nb := s.nodes[a], s.nodes[b]
			assert.GreaterOrEqual(t, geometry.DistanceP(na.Pos, nb.Pos), na.R+nb.R+DefaultConfig.MinClearance-1e-6, "nodes %d and %d overlap", a, b)
		}
	}
}

func TestArrange(t *testing.T) {
	assert := assert.New(t)
	tr := tree.New(tree.Geometry{X: 0, Y: 0, R: 30}, tree.DefaultStyle)
	a, _ := tr.AddChild(tr.Root, tree.Geometry{R: 20})
	b, _ := tr.AddChild(tr.Root, tree.Geometry{R: 20})
	c, _ := tr.AddChild(a, tree.Geometry{R: 20})
	snap := newSnapshot(tr)
	arrange(DefaultConfig, snap)

	root := snap.nodes[tr.Root].Pos
	assert.Equal(vector.Vector{0, 0}, root)
	posA, posB, posC := snap.nodes[a].Pos, snap.nodes[b].Pos, snap.nodes[c].Pos
	assert.InDelta(90.0, geometry.DistanceP(root, posA), 1e-9)
	assert.InDelta(90.0, geometry.DistanceP(root, posB), 1e-9)
	assert.InDelta(80.0, geometry.DistanceP(posA, posC), 1e-9)
	assert.Greater(posA.X(), 0.0, "siblings are fanned on both sides of straight down")
	assert.Less(posB.X(), 0.0)
	assert.Greater(geometry.DistanceP(posA, posB), 40.0+DefaultConfig.MinClearance)
	away := posA.Sub(root)
	grow := posC.Sub(posA)
	assert.InDelta(0.0, geometry.Cross(away.X(), away.Y(), grow.X(), grow.Y()), 1e-6, "c continues the ray root -> a")
	assert.Greater(geometry.Dot(away.X(), away.Y(), grow.X(), grow.Y()), 0.0)
	assert.False(math.IsNaN(posC.X()))
	assertArrangedWithoutOverlap(t, snap)
}

func TestArrange_keepsSiblingOrder(t *testing.T) {
	assert := assert.New(t)
	tr := tree.New(tree.Geometry{X: 0, Y: 0, R: 30}, tree.DefaultStyle)
	right, _ := tr.AddChild(tr.Root, tree.Geometry{X: 90, Y: 10, R: 20})
	left, _ := tr.AddChild(tr.Root, tree.Geometry{X: -90, Y: 10, R: 20})
	snap := newSnapshot(tr)
	arrange(DefaultConfig, snap)
	assert.Greater(snap.nodes[right].Pos.X(), snap.nodes[left].Pos.X())
	assert.InDelta(snap.nodes[right].Pos.Y(), snap.nodes[left].Pos.Y(), 1e-9)
}

func TestArrange_rootClusterKeepsStructuredChildrenOutside(t *testing.T) {
	assert := assert.New(t)
	tr, leaves := rootWithLeaves(t, 5)
	for i := 0; i < 3; i++ {
		addChild(t, tr, leaves[4], 20)
	}
	snap := newSnapshot(tr)
	arrange(DefaultConfig, snap)
	assertArrangedWithoutOverlap(t, snap)
	for _, leaf := range leaves[:4] {
		assert.InDelta(90.0, geometry.DistanceP(vector.Vector{0, 0}, snap.nodes[leaf].Pos), 1e-9)
	}
	assert.Greater(
		geometry.DistanceP(vector.Vector{0, 0}, snap.nodes[leaves[4]].Pos),
		90+20+DefaultConfig.MinClearance+20,
	)
}

func TestArrange_randomTrees(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		tr, ids := randomTree(t, rng, 5+rng.Intn(120), 10, 40)
		if seed%4 == 0 {
			assert.NoError(t, tr.SetChildrenWrapped(ids[1+rng.Intn(len(ids)-1)], true))
		}
		snap := newSnapshot(tr)
		arrange(DefaultConfig, snap)
		assert.Equal(t, vector.Vector{0, 0}, snap.nodes[tr.Root].Pos)
		assertArrangedWithoutOverlap(t, snap)
		for _, id := range snap.order {
			n := snap.nodes[id]
			if n.IsRoot() {
				continue
			}
			parent := snap.nodes[n.Parent]
			assert.GreaterOrEqual(t, geometry.DistanceP(parent.Pos, n.Pos), parent.R+DefaultConfig.EdgeLength+n.R-1e-9)
		}
	}
}

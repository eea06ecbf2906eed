package tree

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/quartercastle/vector"
	"github.com/stretchr/testify/assert"
)

// tenNodes builds
//
//	root ─┬─ a ─┬─ c ── e
//	      │     └─ d
//	      └─ b ─┬─ f
//	            └─ g ─┬─ h
//	                  └─ i
func tenNodes(t *testing.T) (*Tree, map[string]NodeID) {
	tr := New(Geometry{X: 0, Y: 0, R: 30}, DefaultStyle)
	ids := map[string]NodeID{"root": tr.Root}
	for _, edge := range [][2]string{
		{"root", "a"}, {"root", "b"}, {"a", "c"}, {"a", "d"}, {"c", "e"},
		{"b", "f"}, {"b", "g"}, {"g", "h"}, {"g", "i"},
	} {
		id, err := tr.AddChild(ids[edge[0]], Geometry{R: 20})
		assert.NoError(t, err)
		ids[edge[1]] = id
	}
	return tr, ids
}

func TestTree_AddChild(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.Equal(10, tr.Len())
	root, ok := tr.Node(tr.Root)
	assert.True(ok)
	assert.True(root.IsRoot())
	assert.Equal(0, root.Depth)
	e, _ := tr.Node(ids["e"])
	assert.Equal(3, e.Depth)
	assert.Equal(ids["c"], e.Parent)
	a, _ := tr.Node(ids["a"])
	assert.Equal([]NodeID{ids["c"], ids["d"]}, a.Children)

	_, err := tr.AddChild(NodeID(999), Geometry{})
	assert.True(errors.Is(err, ErrNodeNotFound))
}

func TestTree_Node_returnsCopy(t *testing.T) {
	tr, ids := tenNodes(t)
	a, _ := tr.Node(ids["a"])
	a.Children[0] = NodeID(42)
	a.Pos[0] = 1000
	again, _ := tr.Node(ids["a"])
	assert.Equal(t, ids["c"], again.Children[0])
	assert.Equal(t, 0.0, again.Pos.X())
}

func TestTree_RemoveSubtree(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.NoError(tr.AddCondition(ids["f"], ids["e"], "needs e"))
	assert.NoError(tr.AddCondition(ids["b"], ids["d"], "needs d"))
	assert.NoError(tr.AddCondition(ids["h"], ids["f"], "needs f"))

	removed, err := tr.RemoveSubtree(ids["a"])
	assert.NoError(err)
	assert.ElementsMatch([]NodeID{ids["a"], ids["c"], ids["d"], ids["e"]}, removed)
	assert.Equal(6, tr.Len())
	for _, name := range []string{"a", "c", "d", "e"} {
		_, ok := tr.Node(ids[name])
		assert.False(ok, name)
	}
	root, _ := tr.Node(tr.Root)
	assert.Equal([]NodeID{ids["b"]}, root.Children)
	f, _ := tr.Node(ids["f"])
	assert.Empty(f.Conditions, "condition to removed node must be purged")
	b, _ := tr.Node(ids["b"])
	assert.Empty(b.Conditions)
	h, _ := tr.Node(ids["h"])
	assert.Equal([]Condition{{Target: ids["f"], Text: "needs f"}}, h.Conditions)
	assert.Len(tr.Nodes(), 6)
}

func TestTree_RemoveSubtree_errors(t *testing.T) {
	assert := assert.New(t)
	tr, _ := tenNodes(t)
	_, err := tr.RemoveSubtree(tr.Root)
	assert.Equal(ErrRootRemoval, err)
	_, err = tr.RemoveSubtree(NodeID(77))
	assert.True(errors.Is(err, ErrNodeNotFound))
	assert.Equal(10, tr.Len())
}

func TestTree_Visible(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.Len(tr.Visible(), 10)
	assert.NoError(tr.SetChildrenWrapped(ids["b"], true))
	visible := tr.Visible()
	assert.Len(visible, 6, "f, g, h, i are hidden")
	for _, n := range visible {
		assert.NotContains([]NodeID{ids["f"], ids["g"], ids["h"], ids["i"]}, n.ID)
	}
	assert.NoError(tr.SetChildrenWrapped(ids["b"], false))
	assert.Len(tr.Visible(), 10)
	assert.Error(tr.SetChildrenWrapped(NodeID(100), true))
}

func TestTree_IsAncestor(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.True(tr.IsAncestor(tr.Root, ids["e"]))
	assert.True(tr.IsAncestor(ids["a"], ids["e"]))
	assert.False(tr.IsAncestor(ids["e"], ids["a"]))
	assert.False(tr.IsAncestor(ids["b"], ids["e"]))
	assert.False(tr.IsAncestor(ids["a"], ids["a"]))
}

func TestTree_AddCondition(t *testing.T) {
	tr, ids := tenNodes(t)
	assert.NoError(t, tr.AddCondition(ids["d"], ids["f"], ""))
	for _, test := range []struct {
		Name     string
		Src, Dst string
	}{
		{Name: "self", Src: "a", Dst: "a"},
		{Name: "descendant", Src: "a", Dst: "e"},
		{Name: "ancestor", Src: "e", Dst: "root"},
		{Name: "mutual pair", Src: "f", Dst: "d"},
		{Name: "duplicate", Src: "d", Dst: "f"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			err := tr.AddCondition(ids[test.Src], ids[test.Dst], "")
			assert.True(t, errors.Is(err, ErrInvalidCondition), "%v", err)
		})
	}
	assert.True(t, errors.Is(tr.AddCondition(ids["d"], NodeID(55), ""), ErrNodeNotFound))
}

func TestTree_RemoveCondition(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.NoError(tr.AddCondition(ids["d"], ids["f"], ""))
	assert.Len(tr.ConditionLinks(), 1)
	assert.NoError(tr.RemoveCondition(ids["d"], ids["f"]))
	assert.Empty(tr.ConditionLinks())
	assert.Error(tr.RemoveCondition(ids["d"], ids["f"]))
}

func TestTree_ConditionLinks_hiddenEndpoints(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	assert.NoError(tr.AddCondition(ids["d"], ids["h"], "x"))
	links := tr.ConditionLinks()
	assert.Len(links, 1)
	assert.Equal(ids["d"], links[0].Source.ID)
	assert.Equal(ids["h"], links[0].Target.ID)
	assert.NoError(tr.SetChildrenWrapped(ids["g"], true))
	assert.Empty(tr.ConditionLinks())
}

func TestTree_SetPositions(t *testing.T) {
	assert := assert.New(t)
	tr, ids := tenNodes(t)
	tr.SetPositions(map[NodeID]vector.Vector{
		ids["a"]:   {10, 20},
		NodeID(99): {1, 1},
	})
	a, _ := tr.Node(ids["a"])
	assert.Equal(vector.Vector{10, 20}, a.Pos)
}

func TestTree_Edges(t *testing.T) {
	assert := assert.New(t)
	tr := New(Geometry{X: 0, Y: 0, R: 30}, DefaultStyle)
	a, _ := tr.AddChild(tr.Root, Geometry{X: 0, Y: 100, R: 20})
	tr.AddChild(a, Geometry{X: 0, Y: 100, R: 20}) // coincident with a
	edges := tr.Edges()
	assert.Equal([]Edge{{Source: tr.Root, Target: a, Start: vector.Vector{0, 30}, End: vector.Vector{0, 80}}}, edges)
	assert.NoError(tr.SetChildrenWrapped(tr.Root, true))
	assert.Empty(tr.Edges())
}

func TestTree_NodeAt(t *testing.T) {
	assert := assert.New(t)
	tr := New(Geometry{X: 0, Y: 0, R: 30}, DefaultStyle)
	a, _ := tr.AddChild(tr.Root, Geometry{X: 0, Y: 100, R: 20})
	n, ok := tr.NodeAt(5, 95)
	assert.True(ok)
	assert.Equal(a, n.ID)
	n, ok = tr.NodeAt(29, 0)
	assert.True(ok)
	assert.Equal(tr.Root, n.ID)
	_, ok = tr.NodeAt(200, 200)
	assert.False(ok)
}

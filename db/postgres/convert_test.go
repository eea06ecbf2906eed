package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/tree"
	"gorm.io/gorm"
)

func f(v float64) *float64 { return &v }

func TestNodesFromItems(t *testing.T) {
	treeID := uuid.MustParse("9f2a3d43-4c0e-4b57-9a52-3f5e5d2b1c10")
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for _, test := range []struct {
		Name string
		Inp  []tree.Item
		Exp  []Node
	}{
		{
			Name: "root only",
			Inp:  []tree.Item{{ID: "r", Title: "my map", X: f(0), Y: f(0), R: 30}},
			Exp:  []Node{{TreeID: treeID, ItemID: "r", Title: "my map", X: f(0), Y: f(0), R: 30}},
		},
		{
			Name: "child with condition keeps its order",
			Inp: []tree.Item{
				{ID: "r", R: 30},
				{ID: "a", ParentID: "r", R: 20, Finished: true, StartTime: &start},
				{ID: "b", ParentID: "r", R: 20, Conditions: []tree.ItemCondition{{TargetID: "a", Text: "after a"}}},
			},
			Exp: []Node{
				{TreeID: treeID, ItemID: "r", R: 30},
				{TreeID: treeID, ItemID: "a", ParentItemID: "r", Order: 1, R: 20, Finished: true, StartTime: &start},
				{TreeID: treeID, ItemID: "b", ParentItemID: "r", Order: 2, R: 20, Conditions: []Condition{{TargetItemID: "a", Text: "after a"}}},
			},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Exp, nodesFromItems(treeID, test.Inp))
		})
	}
}

func TestItemsFromNodes(t *testing.T) {
	assert := assert.New(t)
	nodes := []Node{
		{Model: gorm.Model{ID: 7}, ItemID: "r", Title: "root", X: f(1), Y: f(2), R: 30},
		{Model: gorm.Model{ID: 8}, ItemID: "a", ParentItemID: "r", Order: 1, ChildrenWrapped: true, Priority: 2,
			Conditions: []Condition{{NodeID: 8, TargetItemID: "r", Text: "x"}}},
	}
	assert.Equal([]tree.Item{
		{ID: "r", Title: "root", X: f(1), Y: f(2), R: 30},
		{ID: "a", ParentID: "r", ChildrenWrapped: true, Priority: 2, Conditions: []tree.ItemCondition{{TargetID: "r", Text: "x"}}},
	}, itemsFromNodes(nodes))
}

func TestItemsRoundTrip(t *testing.T) {
	assert := assert.New(t)
	tr := tree.New(tree.Geometry{X: 0, Y: 0, R: 30}, tree.DefaultStyle)
	a, _ := tr.AddChild(tr.Root, tree.Geometry{X: 0, Y: 90, R: 20})
	b, _ := tr.AddChild(tr.Root, tree.Geometry{X: 50, Y: 90, R: 20})
	assert.NoError(tr.AddCondition(b, a, "needs a"))
	items := tr.Items(nil)

	restored, _, err := tree.Build(itemsFromNodes(nodesFromItems(tr.ID, items)), tree.Geometry{R: 30}, tree.Geometry{R: 20}, tree.DefaultStyle)
	assert.NoError(err)
	assert.Equal(3, restored.Len())
	assert.Len(restored.ConditionLinks(), 1)
}

package tree

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Item is the flat, serializable form of a node as stored by persistence
// layers and read by the CLI. ParentID is empty for the root.
type Item struct {
	ID              string          `json:"id" yaml:"id"`
	ParentID        string          `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Title           string          `json:"title,omitempty" yaml:"title,omitempty"`
	X               *float64        `json:"x,omitempty" yaml:"x,omitempty"`
	Y               *float64        `json:"y,omitempty" yaml:"y,omitempty"`
	R               float64         `json:"r,omitempty" yaml:"r,omitempty"`
	ChildrenWrapped bool            `json:"childrenWrapped,omitempty" yaml:"childrenWrapped,omitempty"`
	Finished        bool            `json:"finished,omitempty" yaml:"finished,omitempty"`
	Priority        int             `json:"priority,omitempty" yaml:"priority,omitempty"`
	StartTime       *time.Time      `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	EndTime         *time.Time      `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	Comment         string          `json:"comment,omitempty" yaml:"comment,omitempty"`
	Conditions      []ItemCondition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

type ItemCondition struct {
	TargetID string `json:"targetId" yaml:"targetId"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Build restores a tree from items given in any order. Nodes without a stored
// position start at the root geometry (root) or rootGeometry's center with
// childGeometry's radius (others); callers are expected to re-arrange the tree
// afterwards. The returned map translates item ids to node ids.
func Build(items []Item, rootGeometry, childGeometry Geometry, style Style) (*Tree, map[string]NodeID, error) {
	var root *Item
	byID := make(map[string]*Item, len(items))
	children := make(map[string][]*Item)
	for i := range items {
		item := &items[i]
		if _, exists := byID[item.ID]; exists {
			return nil, nil, errors.Wrapf(ErrMalformedTree, "duplicate id '%s'", item.ID)
		}
		byID[item.ID] = item
		if item.ParentID == "" {
			if root != nil {
				return nil, nil, errors.Wrapf(ErrMalformedTree, "multiple roots '%s' and '%s'", root.ID, item.ID)
			}
			root = item
			continue
		}
		children[item.ParentID] = append(children[item.ParentID], item)
	}
	if root == nil {
		return nil, nil, errors.Wrap(ErrMalformedTree, "no root")
	}
	t := New(itemGeometry(root, rootGeometry), style)
	ids := map[string]NodeID{root.ID: t.Root}
	t.nodes[t.Root].apply(root)
	queue := []*Item{root}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent.ID] {
			g := Geometry{X: rootGeometry.X, Y: rootGeometry.Y, R: childGeometry.R}
			id := t.insert(ids[parent.ID], itemGeometry(child, g))
			t.nodes[id].apply(child)
			ids[child.ID] = id
			queue = append(queue, child)
		}
	}
	if len(ids) != len(items) {
		for _, item := range items {
			if _, ok := ids[item.ID]; !ok {
				return nil, nil, errors.Wrapf(ErrMalformedTree, "node '%s' is not reachable from the root (parent '%s')", item.ID, item.ParentID)
			}
		}
	}
	for _, item := range items {
		for _, c := range item.Conditions {
			target, ok := ids[c.TargetID]
			if !ok {
				return nil, nil, errors.Wrapf(ErrNodeNotFound, "condition target '%s' of '%s'", c.TargetID, item.ID)
			}
			source := t.nodes[ids[item.ID]]
			if err := t.validateCondition(source, t.nodes[target]); err != nil {
				return nil, nil, err
			}
			source.Conditions = append(source.Conditions, Condition{Target: target, Text: c.Text})
		}
	}
	return t, ids, nil
}

func itemGeometry(item *Item, fallback Geometry) Geometry {
	g := fallback
	if item.X != nil && item.Y != nil {
		g.X, g.Y = *item.X, *item.Y
	}
	if item.R > 0 {
		g.R = item.R
	}
	return g
}

func (n *Node) apply(item *Item) {
	if item.Title != "" {
		n.Title = item.Title
	}
	n.ChildrenWrapped = item.ChildrenWrapped
	n.Finished = item.Finished
	n.Priority = item.Priority
	n.StartTime = item.StartTime
	n.EndTime = item.EndTime
	n.Comment = item.Comment
}

// Items flattens the tree in insertion order. idOf names the nodes; nil uses
// the decimal node id.
func (t *Tree) Items(idOf func(NodeID) string) []Item {
	if idOf == nil {
		idOf = func(id NodeID) string { return strconv.Itoa(int(id)) }
	}
	items := []Item{}
	for _, n := range t.Nodes() {
		x, y := n.Pos.X(), n.Pos.Y()
		item := Item{
			ID:              idOf(n.ID),
			Title:           n.Title,
			X:               &x,
			Y:               &y,
			R:               n.R,
			ChildrenWrapped: n.ChildrenWrapped,
			Finished:        n.Finished,
			Priority:        n.Priority,
			StartTime:       n.StartTime,
			EndTime:         n.EndTime,
			Comment:         n.Comment,
		}
		if !n.IsRoot() {
			item.ParentID = idOf(n.Parent)
		}
		for _, c := range n.Conditions {
			item.Conditions = append(item.Conditions, ItemCondition{TargetID: idOf(c.Target), Text: c.Text})
		}
		items = append(items, item)
	}
	return items
}

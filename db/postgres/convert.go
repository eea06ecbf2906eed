package postgres

import (
	"github.com/google/uuid"
	"github.com/suxatcode/mindtree/tree"
)

func nodesFromItems(treeID uuid.UUID, items []tree.Item) []Node {
	nodes := make([]Node, 0, len(items))
	for i, item := range items {
		node := Node{
			TreeID:          treeID,
			ItemID:          item.ID,
			ParentItemID:    item.ParentID,
			Order:           i,
			Title:           item.Title,
			X:               item.X,
			Y:               item.Y,
			R:               item.R,
			ChildrenWrapped: item.ChildrenWrapped,
			Finished:        item.Finished,
			Priority:        item.Priority,
			StartTime:       item.StartTime,
			EndTime:         item.EndTime,
			Comment:         item.Comment,
		}
		for _, c := range item.Conditions {
			node.Conditions = append(node.Conditions, Condition{TargetItemID: c.TargetID, Text: c.Text})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func itemsFromNodes(nodes []Node) []tree.Item {
	items := make([]tree.Item, 0, len(nodes))
	for _, node := range nodes {
		item := tree.Item{
			ID:              node.ItemID,
			ParentID:        node.ParentItemID,
			Title:           node.Title,
			X:               node.X,
			Y:               node.Y,
			R:               node.R,
			ChildrenWrapped: node.ChildrenWrapped,
			Finished:        node.Finished,
			Priority:        node.Priority,
			StartTime:       node.StartTime,
			EndTime:         node.EndTime,
			Comment:         node.Comment,
		}
		for _, c := range node.Conditions {
			item.Conditions = append(item.Conditions, tree.ItemCondition{TargetID: c.TargetItemID, Text: c.Text})
		}
		items = append(items, item)
	}
	return items
}

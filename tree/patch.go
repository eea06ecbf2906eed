package tree

import (
	"time"

	"github.com/pkg/errors"
)

// Patch lists the user editable fields of a node. Nil fields are left
// unchanged.
type Patch struct {
	Title     *string
	Finished  *bool
	Priority  *int
	StartTime *time.Time
	EndTime   *time.Time
	Comment   *string
}

func (t *Tree) Apply(id NodeID, p Patch) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	if p.Title != nil {
		node.Title = *p.Title
	}
	if p.Finished != nil {
		node.Finished = *p.Finished
	}
	if p.Priority != nil {
		node.Priority = *p.Priority
	}
	if p.StartTime != nil {
		start := *p.StartTime
		node.StartTime = &start
	}
	if p.EndTime != nil {
		end := *p.EndTime
		node.EndTime = &end
	}
	if p.Comment != nil {
		node.Comment = *p.Comment
	}
	return nil
}

// SetFinished marks id finished (or unfinished) together with its subtree.
// Finishing also finishes every ancestor whose children are then all
// finished; unfinishing reopens all finished ancestors. The changed ids are
// returned.
func (t *Tree) SetFinished(id NodeID, finished bool) ([]NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	changed := []NodeID{}
	stack := []*Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Finished == finished {
			continue
		}
		n.Finished = finished
		changed = append(changed, n.ID)
		for _, c := range n.Children {
			if child := t.nodes[c]; child.Finished != finished {
				stack = append(stack, child)
			}
		}
	}
	for n := node; n.Parent != NoNode; {
		parent := t.nodes[n.Parent]
		if parent.Finished == finished {
			break
		}
		if finished && !t.allChildrenFinished(parent) {
			break
		}
		parent.Finished = finished
		changed = append(changed, parent.ID)
		n = parent
	}
	return changed, nil
}

func (t *Tree) allChildrenFinished(n *Node) bool {
	for _, c := range n.Children {
		if !t.nodes[c].Finished {
			return false
		}
	}
	return true
}

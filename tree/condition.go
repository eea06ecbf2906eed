package tree

import "github.com/pkg/errors"

// AddCondition links src to dst. Links between relatives, self links, mutual
// pairs and duplicates are rejected.
func (t *Tree) AddCondition(src, dst NodeID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	source, ok := t.nodes[src]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "condition source %d", src)
	}
	target, ok := t.nodes[dst]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "condition target %d", dst)
	}
	if err := t.validateCondition(source, target); err != nil {
		return err
	}
	source.Conditions = append(source.Conditions, Condition{Target: dst, Text: text})
	return nil
}

func (t *Tree) validateCondition(source, target *Node) error {
	switch {
	case source.ID == target.ID:
		return errors.Wrapf(ErrInvalidCondition, "node %d cannot be its own precursor", source.ID)
	case t.isAncestor(source.ID, target.ID):
		return errors.Wrapf(ErrInvalidCondition, "%d is an ancestor of %d", source.ID, target.ID)
	case t.isAncestor(target.ID, source.ID):
		return errors.Wrapf(ErrInvalidCondition, "%d is a descendant of %d", source.ID, target.ID)
	case hasCondition(target, source.ID):
		return errors.Wrapf(ErrInvalidCondition, "%d already points to %d", target.ID, source.ID)
	case hasCondition(source, target.ID):
		return errors.Wrapf(ErrInvalidCondition, "duplicate condition %d -> %d", source.ID, target.ID)
	}
	return nil
}

func hasCondition(n *Node, target NodeID) bool {
	for _, c := range n.Conditions {
		if c.Target == target {
			return true
		}
	}
	return false
}

func (t *Tree) RemoveCondition(src, dst NodeID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	source, ok := t.nodes[src]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "condition source %d", src)
	}
	if !hasCondition(source, dst) {
		return errors.Wrapf(ErrNodeNotFound, "no condition %d -> %d", src, dst)
	}
	source.Conditions = removeIf(source.Conditions, func(c Condition) bool { return c.Target == dst })
	return nil
}

// ConditionLink is a condition resolved to both endpoints, as consumed by
// renderers.
type ConditionLink struct {
	Source, Target Node
	Text           string
}

// ConditionLinks returns all conditions whose endpoints are both visible.
func (t *Tree) ConditionLinks() []ConditionLink {
	visible := t.Visible()
	byID := make(map[NodeID]Node, len(visible))
	for _, n := range visible {
		byID[n.ID] = n
	}
	links := []ConditionLink{}
	for _, n := range visible {
		for _, c := range n.Conditions {
			if target, ok := byID[c.Target]; ok {
				links = append(links, ConditionLink{Source: n, Target: target, Text: c.Text})
			}
		}
	}
	return links
}

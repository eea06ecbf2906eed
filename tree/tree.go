// Package tree is the data model of a mind-map: a rooted tree of circular
// nodes addressed by stable ids, plus non-hierarchical condition links.
package tree

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quartercastle/vector"
)

type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrRootRemoval      = errors.New("the root node cannot be removed")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrMalformedTree    = errors.New("malformed tree")
)

type Style struct {
	Stroke      string  `json:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"strokeWidth"`
}

var DefaultStyle = Style{Stroke: "#096dd9", StrokeWidth: 2}

// Geometry is the initial center and radius of a new node.
type Geometry struct {
	X, Y, R float64
}

// Condition is a precursor link from the owning node to Target.
type Condition struct {
	Target NodeID
	Text   string
}

type Node struct {
	ID              NodeID
	Title           string
	Pos             vector.Vector
	R               float64
	Style           Style
	Parent          NodeID
	Children        []NodeID
	Depth           int
	ChildrenWrapped bool
	Finished        bool
	Priority        int
	StartTime       *time.Time
	EndTime         *time.Time
	Comment         string
	Conditions      []Condition
}

func (n Node) IsRoot() bool {
	return n.Parent == NoNode
}

func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) clone() Node {
	c := *n
	c.Pos = vector.Vector{n.Pos.X(), n.Pos.Y()}
	c.Children = append([]NodeID{}, n.Children...)
	c.Conditions = append([]Condition{}, n.Conditions...)
	return c
}

// Tree owns all nodes. Exported methods lock the tree, returned nodes are
// copies.
type Tree struct {
	ID    uuid.UUID
	Root  NodeID
	mu    sync.RWMutex
	nodes map[NodeID]*Node
	// insertion order, removed ids are dropped
	order  []NodeID
	nextID NodeID
	style  Style
}

const defaultTitle = "title"

func New(root Geometry, style Style) *Tree {
	t := &Tree{
		ID:    uuid.New(),
		nodes: make(map[NodeID]*Node),
		style: style,
	}
	t.Root = t.insert(NoNode, root)
	return t
}

func (t *Tree) insert(parent NodeID, g Geometry) NodeID {
	id := t.nextID
	t.nextID++
	node := &Node{
		ID:     id,
		Title:  defaultTitle,
		Pos:    vector.Vector{g.X, g.Y},
		R:      g.R,
		Style:  t.style,
		Parent: parent,
	}
	if p, ok := t.nodes[parent]; ok {
		node.Depth = p.Depth + 1
		p.Children = append(p.Children, id)
	}
	t.nodes[id] = node
	t.order = append(t.order, id)
	return id
}

// AddChild appends a new node to parent's children.
func (t *Tree) AddChild(parent NodeID, g Geometry) (NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[parent]; !ok {
		return NoNode, errors.Wrapf(ErrNodeNotFound, "parent %d", parent)
	}
	return t.insert(parent, g), nil
}

// RemoveSubtree removes id with all of its descendants and every condition
// pointing into the removed subtree. It returns the removed ids, id first.
func (t *Tree) RemoveSubtree(id NodeID) ([]NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	if node.IsRoot() {
		return nil, ErrRootRemoval
	}
	removed := t.subtree(id)
	gone := make(map[NodeID]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
		delete(t.nodes, r)
	}
	parent := t.nodes[node.Parent]
	parent.Children = removeIf(parent.Children, func(c NodeID) bool { return c == id })
	for _, n := range t.nodes {
		n.Conditions = removeIf(n.Conditions, func(c Condition) bool { return gone[c.Target] })
	}
	t.order = removeIf(t.order, func(o NodeID) bool { return gone[o] })
	return removed, nil
}

// subtree returns id and its descendants in breadth-first order.
func (t *Tree) subtree(id NodeID) []NodeID {
	ids := []NodeID{id}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, t.nodes[ids[i]].Children...)
	}
	return ids
}

func (t *Tree) SetChildrenWrapped(id NodeID, wrapped bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	node.ChildrenWrapped = wrapped
	return nil
}

func (t *Tree) Node(id NodeID) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	node, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return node.clone(), true
}

// Nodes returns all nodes in insertion order, hidden ones included.
func (t *Tree) Nodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	nodes := make([]Node, 0, len(t.order))
	for _, id := range t.order {
		nodes = append(nodes, t.nodes[id].clone())
	}
	return nodes
}

func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

func (t *Tree) Children(id NodeID) []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	node, ok := t.nodes[id]
	if !ok {
		return nil
	}
	children := make([]Node, 0, len(node.Children))
	for _, c := range node.Children {
		children = append(children, t.nodes[c].clone())
	}
	return children
}

// Visible returns the nodes that are not hidden below a wrapped node, parents
// before children.
func (t *Tree) Visible() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	nodes := []Node{}
	queue := []NodeID{t.Root}
	for len(queue) > 0 {
		n := t.nodes[queue[0]]
		queue = queue[1:]
		nodes = append(nodes, n.clone())
		if !n.ChildrenWrapped {
			queue = append(queue, n.Children...)
		}
	}
	return nodes
}

// IsAncestor reports whether a is a proper ancestor of b.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isAncestor(a, b)
}

func (t *Tree) isAncestor(a, b NodeID) bool {
	node, ok := t.nodes[b]
	if !ok {
		return false
	}
	for p := node.Parent; p != NoNode; p = t.nodes[p].Parent {
		if p == a {
			return true
		}
	}
	return false
}

// SetPositions moves the given nodes. Unknown ids are ignored, they belong to
// nodes removed after the positions were computed.
func (t *Tree) SetPositions(positions map[NodeID]vector.Vector) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, pos := range positions {
		if node, ok := t.nodes[id]; ok {
			node.Pos = vector.Vector{pos.X(), pos.Y()}
		}
	}
}

func (t *Tree) Style() Style {
	return t.style
}

func removeIf[T any, A ~[]T](ar A, pred func(t T) bool) []T {
	newar := []T{}
	for _, a := range ar {
		if !pred(a) {
			newar = append(newar, a)
		}
	}
	return newar
}

package controller

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/mindtree/db"
	"github.com/suxatcode/mindtree/layout"
	"github.com/suxatcode/mindtree/tree"
)

var ErrTreeNotLoaded = errors.New("tree not loaded")

// Controller owns the loaded trees. Every structural change triggers a
// re-arrangement of the changed tree.
type Controller struct {
	db       db.DB
	layouter Layouter
	conf     layout.Config
	mu       sync.RWMutex
	trees    map[uuid.UUID]*tree.Tree
	// persistent item ids of the nodes of each tree
	itemIDs map[uuid.UUID]map[tree.NodeID]string
}

func NewController(newdb db.DB, layouter Layouter, conf layout.Config) *Controller {
	return &Controller{
		db:       newdb,
		layouter: layouter,
		conf:     layout.ApplyConfig(conf),
		trees:    make(map[uuid.UUID]*tree.Tree),
		itemIDs:  make(map[uuid.UUID]map[tree.NodeID]string),
	}
}

func (c *Controller) register(t *tree.Tree, itemIDs map[tree.NodeID]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trees[t.ID] = t
	c.itemIDs[t.ID] = itemIDs
}

// NewTree creates a tree holding only a root at the origin.
func (c *Controller) NewTree(ctx context.Context) *tree.Tree {
	t := tree.New(tree.Geometry{X: 0, Y: 0, R: c.conf.RootRadius}, tree.DefaultStyle)
	c.register(t, map[tree.NodeID]string{t.Root: uuid.NewString()})
	log.Ctx(CtxNewWithTree(ctx, t.ID)).Debug().Msgf("NewTree() -> %s", t.ID)
	return t
}

func (c *Controller) Tree(id uuid.UUID) (*tree.Tree, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, exists := c.trees[id]
	if !exists {
		return nil, errors.Wrapf(ErrTreeNotLoaded, "tree '%s'", id)
	}
	return t, nil
}

// AddChild seeds a new node of radius r next to parent and re-arranges the
// tree. A non-positive r uses the configured plain radius.
func (c *Controller) AddChild(ctx context.Context, treeID uuid.UUID, parent tree.NodeID, r float64) (tree.NodeID, *Future, error) {
	ctx = CtxNewWithTree(ctx, treeID)
	t, err := c.Tree(treeID)
	if err != nil {
		return tree.NoNode, nil, err
	}
	if r <= 0 {
		r = c.conf.PlainRadius
	}
	pos, err := layout.SeedChild(t, parent, r, c.conf.EdgeLength)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return tree.NoNode, nil, err
	}
	id, err := t.AddChild(parent, tree.Geometry{X: pos.X(), Y: pos.Y(), R: r})
	if err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return tree.NoNode, nil, err
	}
	c.mu.Lock()
	c.itemIDs[treeID][id] = uuid.NewString()
	c.mu.Unlock()
	log.Ctx(ctx).Debug().Msgf("AddChild(%d) -> %d at (%.1f, %.1f)", parent, id, pos.X(), pos.Y())
	return id, c.layouter.Rearrange(ctx, t), nil
}

// RemoveSubtree removes id and its descendants and re-arranges the tree.
func (c *Controller) RemoveSubtree(ctx context.Context, treeID uuid.UUID, id tree.NodeID) (*Future, error) {
	ctx = CtxNewWithTree(ctx, treeID)
	t, err := c.Tree(treeID)
	if err != nil {
		return nil, err
	}
	removed, err := t.RemoveSubtree(id)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return nil, err
	}
	c.mu.Lock()
	for _, r := range removed {
		delete(c.itemIDs[treeID], r)
	}
	c.mu.Unlock()
	return c.layouter.Rearrange(ctx, t), nil
}

// SetChildrenWrapped collapses or expands the children of id and re-arranges
// the tree.
func (c *Controller) SetChildrenWrapped(ctx context.Context, treeID uuid.UUID, id tree.NodeID, wrapped bool) (*Future, error) {
	ctx = CtxNewWithTree(ctx, treeID)
	t, err := c.Tree(treeID)
	if err != nil {
		return nil, err
	}
	if err := t.SetChildrenWrapped(id, wrapped); err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return nil, err
	}
	return c.layouter.Rearrange(ctx, t), nil
}

// Rearrange re-arranges a loaded tree without changing it.
func (c *Controller) Rearrange(ctx context.Context, treeID uuid.UUID) (*Future, error) {
	t, err := c.Tree(treeID)
	if err != nil {
		return nil, err
	}
	return c.layouter.Rearrange(ctx, t), nil
}

// Load restores a tree from the database and re-arranges it.
func (c *Controller) Load(ctx context.Context, id uuid.UUID) (*tree.Tree, *Future, error) {
	ctx = CtxNewWithTree(ctx, id)
	items, err := c.db.LoadTree(ctx, id)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return nil, nil, err
	}
	t, ids, err := tree.Build(
		items,
		tree.Geometry{X: 0, Y: 0, R: c.conf.RootRadius},
		tree.Geometry{R: c.conf.PlainRadius},
		tree.DefaultStyle,
	)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("tree '%s': %v", id, err)
		return nil, nil, err
	}
	t.ID = id
	itemIDs := make(map[tree.NodeID]string, len(ids))
	for itemID, nodeID := range ids {
		itemIDs[nodeID] = itemID
	}
	c.register(t, itemIDs)
	log.Ctx(ctx).Debug().Msgf("Load(%s) -> %d nodes", id, len(items))
	return t, c.layouter.Rearrange(ctx, t), nil
}

func (c *Controller) items(treeID uuid.UUID) ([]tree.Item, error) {
	t, err := c.Tree(treeID)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	itemIDs := c.itemIDs[treeID]
	return t.Items(func(id tree.NodeID) string { return itemIDs[id] }), nil
}

// Save stores structure and positions of a loaded tree.
func (c *Controller) Save(ctx context.Context, treeID uuid.UUID) error {
	ctx = CtxNewWithTree(ctx, treeID)
	items, err := c.items(treeID)
	if err != nil {
		return err
	}
	if err := c.db.SaveTree(ctx, treeID, items); err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return err
	}
	return nil
}

// SavePositions stores only the node positions of a loaded tree.
func (c *Controller) SavePositions(ctx context.Context, treeID uuid.UUID) error {
	ctx = CtxNewWithTree(ctx, treeID)
	items, err := c.items(treeID)
	if err != nil {
		return err
	}
	if err := c.db.SavePositions(ctx, treeID, items); err != nil {
		log.Ctx(ctx).Error().Msgf("%v", err)
		return err
	}
	return nil
}

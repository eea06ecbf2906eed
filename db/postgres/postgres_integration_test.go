//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/db"
	"github.com/suxatcode/mindtree/tree"
)

func TestPostgresDB_NewPostgresDB(t *testing.T) {
	assert := assert.New(t)
	_, err := NewPostgresDB(TESTONLY_Config)
	assert.NoError(err)
}

func testItems() []tree.Item {
	return []tree.Item{
		{ID: "r", Title: "plan", X: f(0), Y: f(0), R: 30},
		{ID: "a", ParentID: "r", Title: "design", X: f(0), Y: f(90), R: 20},
		{ID: "b", ParentID: "r", Title: "build", X: f(80), Y: f(40), R: 20,
			Conditions: []tree.ItemCondition{{TargetID: "a", Text: "after design"}}},
	}
}

func TestPostgresDB_SaveAndLoadTree(t *testing.T) {
	pg := TESTONLY_SetupAndCleanup(t)
	assert := assert.New(t)
	ctx := context.Background()
	id := uuid.New()
	assert.NoError(pg.SaveTree(ctx, id, testItems()))

	items, err := pg.LoadTree(ctx, id)
	assert.NoError(err)
	assert.Equal(testItems(), items)

	ids, err := pg.ListTrees(ctx)
	assert.NoError(err)
	assert.Equal([]uuid.UUID{id}, ids)
}

func TestPostgresDB_SaveTreeReplacesNodes(t *testing.T) {
	pg := TESTONLY_SetupAndCleanup(t)
	assert := assert.New(t)
	ctx := context.Background()
	id := uuid.New()
	assert.NoError(pg.SaveTree(ctx, id, testItems()))
	assert.NoError(pg.SaveTree(ctx, id, testItems()[:2]))

	items, err := pg.LoadTree(ctx, id)
	assert.NoError(err)
	assert.Len(items, 2)
	conditions := []Condition{}
	assert.NoError(pg.db.Find(&conditions).Error)
	assert.Empty(conditions)
}

func TestPostgresDB_LoadTreeNotFound(t *testing.T) {
	pg := TESTONLY_SetupAndCleanup(t)
	_, err := pg.LoadTree(context.Background(), uuid.New())
	assert.ErrorIs(t, err, db.ErrTreeNotFound)
}

func TestPostgresDB_SavePositions(t *testing.T) {
	pg := TESTONLY_SetupAndCleanup(t)
	assert := assert.New(t)
	ctx := context.Background()
	id := uuid.New()
	assert.NoError(pg.SaveTree(ctx, id, testItems()))

	assert.NoError(pg.SavePositions(ctx, id, []tree.Item{{ID: "a", X: f(-10), Y: f(95)}}))
	items, err := pg.LoadTree(ctx, id)
	assert.NoError(err)
	assert.Equal(-10.0, *items[1].X)
	assert.Equal(95.0, *items[1].Y)
	assert.Equal("design", items[1].Title)

	err = pg.SavePositions(ctx, id, []tree.Item{{ID: "missing", X: f(1), Y: f(1)}})
	assert.ErrorIs(err, tree.ErrNodeNotFound)
}

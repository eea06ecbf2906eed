package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/suxatcode/mindtree/db"
	"github.com/suxatcode/mindtree/tree"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Tree struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Nodes     []Node `gorm:"constraint:OnDelete:CASCADE"`
}

type Node struct {
	gorm.Model
	TreeID uuid.UUID `gorm:"type:uuid;index:idx_tree_item,unique;not null"`
	// ItemID is the caller's id of the node, unique per tree.
	ItemID       string `gorm:"index:idx_tree_item,unique;not null"`
	ParentItemID string
	// Order keeps the sibling order of the saved item list.
	Order           int
	Title           string
	X, Y            *float64
	R               float64
	ChildrenWrapped bool
	Finished        bool
	Priority        int
	StartTime       *time.Time
	EndTime         *time.Time
	Comment         string
	Conditions      []Condition `gorm:"constraint:OnDelete:CASCADE"`
}

type Condition struct {
	gorm.Model
	NodeID       uint
	TargetItemID string `gorm:"not null"`
	Text         string
}

func NewPostgresDB(conf db.Config) (db.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn(conf)}), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	pg := &PostgresDB{
		db: db,
	}
	return pg.init()
}

func dsn(conf db.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		conf.PGHost, conf.PGUser, conf.PGPassword, conf.PGDatabase, conf.PGPort,
	)
}

type PostgresDB struct {
	db *gorm.DB
}

func (pg *PostgresDB) init() (db.DB, error) {
	return pg, pg.db.AutoMigrate(&Tree{}, &Node{}, &Condition{})
}

func (pg *PostgresDB) ListTrees(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := pg.db.WithContext(ctx).Model(&Tree{}).Order("created_at").Pluck("id", &ids).Error
	return ids, err
}

func (pg *PostgresDB) LoadTree(ctx context.Context, id uuid.UUID) ([]tree.Item, error) {
	if err := pg.db.WithContext(ctx).First(&Tree{}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(db.ErrTreeNotFound, "tree '%s'", id)
		}
		return nil, err
	}
	nodes := []Node{}
	err := pg.db.WithContext(ctx).
		Preload("Conditions").
		Where("tree_id = ?", id).
		Order(`"order"`).
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return itemsFromNodes(nodes), nil
}

func (pg *PostgresDB) SaveTree(ctx context.Context, id uuid.UUID, items []tree.Item) error {
	return pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&Tree{ID: id}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("tree_id = ?", id).Delete(&Node{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		nodes := nodesFromItems(id, items)
		return tx.Create(&nodes).Error
	})
}

func (pg *PostgresDB) SavePositions(ctx context.Context, id uuid.UUID, items []tree.Item) error {
	return pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&Node{}).
				Where("tree_id = ? AND item_id = ?", id, item.ID).
				Updates(map[string]interface{}{"x": item.X, "y": item.Y})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.Wrapf(tree.ErrNodeNotFound, "item '%s' of tree '%s'", item.ID, id)
			}
		}
		return nil
	})
}

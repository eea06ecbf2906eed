package db

import (
	"context"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/suxatcode/mindtree/tree"
)

var ErrTreeNotFound = errors.New("tree not found")

// DB persists trees as flat item lists, see tree.Build and tree.Items.
//
//go:generate mockgen -destination db_mock.go -package db . DB
type DB interface {
	ListTrees(ctx context.Context) ([]uuid.UUID, error)
	// LoadTree returns ErrTreeNotFound for unknown ids.
	LoadTree(ctx context.Context, id uuid.UUID) ([]tree.Item, error)
	// SaveTree replaces all stored items of the tree.
	SaveTree(ctx context.Context, id uuid.UUID, items []tree.Item) error
	// SavePositions updates only the positions of already stored items.
	SavePositions(ctx context.Context, id uuid.UUID, items []tree.Item) error
}

type Config struct {
	PGHost     string `env:"DB_PG_HOST" envDefault:"localhost"`
	PGPort     int    `env:"DB_PG_PORT" envDefault:"5432"`
	PGUser     string `env:"DB_PG_USER" envDefault:"mindtree"`
	PGPassword string `env:"DB_PG_PASSWORD" envDefault:"example"`
	PGDatabase string `env:"DB_PG_DATABASE" envDefault:"mindtree"`
}

func GetEnvConfig() Config {
	conf := Config{}
	env.Parse(&conf)
	return conf
}

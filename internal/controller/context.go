package controller

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey int

const contextValueTreeID contextKey = iota

// CtxNewWithTree attaches the tree id to ctx and to the logger returned by
// log.Ctx(ctx).
func CtxNewWithTree(ctx context.Context, id uuid.UUID) context.Context {
	if existing, ok := CtxGetTree(ctx); ok && existing == id {
		return ctx
	}
	logger := log.With().Str("tree", id.String()).Logger()
	ctx = logger.WithContext(ctx)
	return context.WithValue(ctx, contextValueTreeID, id)
}

func CtxGetTree(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextValueTreeID).(uuid.UUID)
	return id, ok
}

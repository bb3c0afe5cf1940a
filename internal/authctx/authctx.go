// Package authctx carries the authenticated principal through context.Context.
package authctx

import (
	"context"

	"github.com/cittafutura/booking-service/internal/models"
)

type Principal struct {
	UserID uint
	Role   models.Role
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// ActorID returns the calling user's id, or 0 for system callers.
func ActorID(ctx context.Context) uint {
	if p, ok := PrincipalFrom(ctx); ok {
		return p.UserID
	}
	return 0
}

package middleware

import (
	"context"

	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   enums.Role
	Name   string
	Email  string
}

// WithIdentity attaches the caller to ctx for downstream handlers.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok
}

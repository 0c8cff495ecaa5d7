package auth

import (
	"context"

	"github.com/cryptadb/crypta/internal/domain"
)

type contextKey string

const grantsKey contextKey = "queryGrants"

// ContextWithGrants returns a new context carrying the caller's query
// grants.
func ContextWithGrants(ctx context.Context, grants []domain.Grant) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, grantsKey, grants)
}

// GrantsFromContext retrieves the caller's query grants. A missing or
// empty grant list is a valid state: downstream resolution fails closed.
func GrantsFromContext(ctx context.Context) []domain.Grant {
	if ctx == nil {
		return nil
	}
	grants, ok := ctx.Value(grantsKey).([]domain.Grant)
	if !ok {
		return nil
	}
	return grants
}

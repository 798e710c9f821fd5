// Package appctx carries request-scoped entities through context so
// handlers never reach into middleware internals.
package appctx

import (
	"context"

	"linequeue/models"
)

type ctxKey int

const userKey ctxKey = iota

// SetUser returns a context carrying the authenticated user.
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser reports the authenticated user carried by ctx. The second
// return is false on unauthenticated requests.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

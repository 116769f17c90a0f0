// Package session carries the authenticated caller through a request.
package session

import (
	"context"
	"errors"
)

// ErrNoIdentity is returned when a request reached a handler without authentication
var ErrNoIdentity = errors.New("no session identity in context")

// Identity is the authenticated user and the tenant the request acts for
type Identity struct {
	UserID   string
	Email    string
	TenantID string
	Role     string
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.TenantID == "" {
		return Identity{}, false
	}
	return id, true
}

// Require is FromContext returning ErrNoIdentity when absent
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

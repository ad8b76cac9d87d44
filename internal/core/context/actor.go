// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorContext identifies who is performing a mutation. Ledger entries and
// audit records carry the actor, so handlers must resolve it before any write.
type ActorContext struct {
	ActorID     string
	Name        string
	Email       string
	Roles       []string
	Permissions []string
	IsAdmin     bool
	SessionID   string
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or "system" for background jobs.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return "system"
}

// HasPermission checks if actor has a specific permission. Admins
// pass every check.
func HasPermission(ctx context.Context, permission string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	if a.IsAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasRole checks if actor has specific role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	if a.IsAdmin {
		return true
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

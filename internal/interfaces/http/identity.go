package http

import (
	"context"

	"github.com/faraway-yachting/pettycash/internal/application/port"
)

// actorKey is a custom type for context keys to avoid collisions
type actorKey struct{}

// WithActor returns a context carrying the acting user's identifier.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user, or empty when the request
// carried no identity.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok {
		return actor
	}
	return ""
}

// HeaderIdentity resolves the acting user from the request context, where
// the actor middleware placed the value of the configured header. Identity
// verification happens upstream; here the header is trusted as-is.
type HeaderIdentity struct{}

// NewHeaderIdentity creates a new HeaderIdentity
func NewHeaderIdentity() *HeaderIdentity {
	return &HeaderIdentity{}
}

// CurrentActor returns the acting user, or empty when the request carried
// no identity
func (p *HeaderIdentity) CurrentActor(ctx context.Context) string {
	return ActorFromContext(ctx)
}

// Verify interface compliance
var _ port.IdentityProvider = (*HeaderIdentity)(nil)

package port

import "context"

// IdentityProvider supplies the opaque actor identifier recorded on
// createdBy/approvedBy/rejectedBy fields. The core stores it and never
// validates it; authentication lives entirely outside this module.
type IdentityProvider interface {
	CurrentActor(ctx context.Context) string
}

package policy

import "context"

type contextKey struct{}

// NewContext attaches the caller's identity to a request context.
func NewContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// FromContext extracts the caller's identity, or nil for unauthenticated
// requests.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(contextKey{}).(*Identity)
	return identity
}

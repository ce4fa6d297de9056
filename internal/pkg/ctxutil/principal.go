package ctxutil

import "context"

// Principal identifies the caller of a vocabulary operation. It is set by
// the transport layer (out of scope here) and consumed for createdBy /
// updatedBy attribution and permission checks.
type Principal struct {
	ID        string
	CompanyID string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the principal attached to ctx, or ok=false when
// the call carries none.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	val := ctx.Value(principalKey{})
	p, ok := val.(Principal)
	if !ok || p.ID == "" {
		return Principal{}, false
	}
	return p, true
}

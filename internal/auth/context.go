package auth

import (
	"context"
)

type contextKey string

const principalKey contextKey = "auth_principal"

// Principal describes the caller that passed the API key check.
type Principal struct {
	// Fingerprint identifies the key without revealing it.
	Fingerprint string
	// Verified is true when the key was checked against a configured hash
	// rather than merely being present.
	Verified bool
}

// ContextWithPrincipal adds p to ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal, or nil when the request was
// not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// Package identity wraps the identity provider: token verification for the
// privileged server half, and current-identity tracking plus fresh-token
// minting for the client half of the mutation pipeline.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated reports that no identity is signed in; calls that
	// need a token must fail fast without reaching the network.
	ErrUnauthenticated = errors.New("identity: unauthenticated")
	// ErrInvalidToken reports a token that is malformed, expired, or signed
	// with the wrong key.
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Claims is the verified content of an identity token.
type Claims struct {
	SubjectID string
	Email     string
}

// Identity is the currently signed-in principal.
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier is the server-half surface: prove a bearer token is genuine.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Session is the client-half surface. FreshToken with forceRefresh true must
// mint a new token rather than reuse one across calls; tokens are short-lived
// and a cached value may expire mid-flight. OnChange fires once on attach
// with the current identity, then once per actual sign-in or sign-out.
type Session interface {
	Current() *Identity
	OnChange(fn func(*Identity)) (cancel func())
	FreshToken(ctx context.Context, forceRefresh bool) (string, error)
}

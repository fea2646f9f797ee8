// Package claims carries the learner's upstream credentials through a request.
// The portal never authenticates anyone itself: it forwards the session and
// CSRF cookies the upstream issued.
package claims

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

type Claims struct {
	SessionID string
	CSRFToken string
}

// Authenticated reports whether an upstream session is present.
func (c Claims) Authenticated() bool {
	return c.SessionID != ""
}

// Scope is a stable, non-reversible key for per-learner cache entries.
func (c Claims) Scope() string {
	if c.SessionID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(c.SessionID))
	return hex.EncodeToString(sum[:8])
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

// IsAuthenticated reports whether ctx carries an upstream session.
func IsAuthenticated(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}
	return c.Authenticated()
}

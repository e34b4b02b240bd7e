// Package auth verifies bearer tokens and carries the resulting principal through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"dataroom/internal/config"
	"dataroom/internal/model"
)

// ErrInvalidToken is returned for any token that fails parsing, signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier turns a raw bearer token into a principal.
type Verifier interface {
	Verify(token string) (model.Principal, error)
}

// New picks a JWKS verifier when a key set URL is configured, otherwise a shared-secret verifier.
func New(ctx context.Context, cfg config.AuthConfig) (Verifier, error) {
	switch {
	case cfg.JWKSURL != "":
		return NewJWKSVerifier(ctx, cfg.JWKSURL, cfg.Issuer)
	case cfg.JWTSecret != "":
		return NewHMACVerifier(cfg.JWTSecret, cfg.Issuer)
	default:
		return nil, fmt.Errorf("auth: either JWKS_URL or JWT_SECRET is required")
	}
}

func parserOptions(issuer string, methods []string) []jwt.ParserOption {
	opts := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return opts
}

func principalFromToken(token *jwt.Token) (model.Principal, error) {
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return model.Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return model.Principal{ID: claims.Subject, Email: claims.Email}, nil
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or the anonymous principal.
func PrincipalFrom(ctx context.Context) model.Principal {
	p, _ := ctx.Value(principalKey{}).(model.Principal)
	return p
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"dataroom/internal/model"
)

// JWKSVerifier checks asymmetric tokens against a remote JSON Web Key Set.
// keyfunc caches the key set and refreshes it in the background.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
}

// NewJWKSVerifier fetches the key set at jwksURL.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer string) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}
	return &JWKSVerifier{jwks: jwks, issuer: issuer}, nil
}

func (v *JWKSVerifier) Verify(tokenString string) (model.Principal, error) {
	// Only asymmetric algorithms; an HS256 token signed with a public key must not pass.
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.jwks.Keyfunc,
		parserOptions(v.issuer, []string{"RS256", "ES256"})...)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return principalFromToken(token)
}

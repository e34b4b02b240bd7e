package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"dataroom/internal/model"
)

// HMACVerifier checks HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	issuer string
}

// NewHMACVerifier creates a verifier for the given secret. An empty issuer disables the iss check.
func NewHMACVerifier(secret, issuer string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), issuer: issuer}, nil
}

func (v *HMACVerifier) Verify(tokenString string) (model.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOptions(v.issuer, []string{"HS256"})...)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return principalFromToken(token)
}

// Sign issues a token for p. Used by tooling and tests that need a valid bearer token.
func (v *HMACVerifier) Sign(p model.Principal, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = p.ID
	if claims.Issuer == "" {
		claims.Issuer = v.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims, Email: p.Email}).
		SignedString(v.secret)
}

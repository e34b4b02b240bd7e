package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/config"
	"dataroom/internal/model"
)

func TestHMACVerifier_Verify(t *testing.T) {
	v, err := NewHMACVerifier("s3cret", "dataroom")
	require.NoError(t, err)

	alice := model.Principal{ID: "user-1", Email: "alice@example.com"}
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	t.Run("valid token", func(t *testing.T) {
		tok, err := v.Sign(alice, valid)
		require.NoError(t, err)

		p, err := v.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, alice, p)
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := v.Sign(alice, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		tok, err := v.Sign(alice, jwt.RegisteredClaims{})
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHMACVerifier("other", "dataroom")
		require.NoError(t, err)
		tok, err := other.Sign(alice, valid)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewHMACVerifier("s3cret", "elsewhere")
		require.NoError(t, err)
		tok, err := other.Sign(alice, valid)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := v.Sign(model.Principal{}, valid)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "dataroom", ExpiresAt: valid.ExpiresAt},
		}).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNew(t *testing.T) {
	v, err := New(context.Background(), config.AuthConfig{JWTSecret: "x"})
	require.NoError(t, err)
	assert.IsType(t, &HMACVerifier{}, v)

	_, err = New(context.Background(), config.AuthConfig{})
	assert.Error(t, err)

	_, err = NewHMACVerifier("", "")
	assert.Error(t, err)

	_, err = NewJWKSVerifier(context.Background(), "", "")
	assert.Error(t, err)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, PrincipalFrom(ctx).Anonymous())

	p := model.Principal{ID: "user-1", Email: "a@b.c"}
	assert.Equal(t, p, PrincipalFrom(WithPrincipal(ctx, p)))
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/paytrack/authd/internal/service"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	auth, users, _, clock := newTestServices(t)

	_, err := users.Register(ctx, "Test User", "test1", "pw12345")
	require.NoError(t, err)

	t.Run("unknown login", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody", "pw12345")
		require.ErrorIs(t, err, service.ErrLoginNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "test1", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("valid credentials yield a five minute token", func(t *testing.T) {
		tok, err := auth.Login(ctx, "test1", "pw12345")
		require.NoError(t, err)
		require.NotEmpty(t, tok.Value)
		require.Equal(t, 5*time.Minute, tok.ExpiresAt.Sub(clock.Now()))
	})

	t.Run("second login before expiry returns the same token", func(t *testing.T) {
		first, err := auth.Login(ctx, "test1", "pw12345")
		require.NoError(t, err)

		second, err := auth.Login(ctx, "TEST1", "pw12345")
		require.NoError(t, err)
		require.Equal(t, first.Value, second.Value)
	})
}

func TestAuthServiceIdentify(t *testing.T) {
	ctx := context.Background()
	auth, users, _, clock := newTestServices(t)

	userID, err := users.Register(ctx, "Test User", "test1", "pw12345")
	require.NoError(t, err)

	t.Run("unknown token", func(t *testing.T) {
		_, err := auth.Identify(ctx, "never-issued")
		require.ErrorIs(t, err, service.ErrNotAuthenticated)
	})

	t.Run("valid token resolves the principal", func(t *testing.T) {
		tok, err := auth.Login(ctx, "test1", "pw12345")
		require.NoError(t, err)

		principal, err := auth.Identify(ctx, tok.Value)
		require.NoError(t, err)
		require.Equal(t, userID, principal.UserID)
		require.Equal(t, "Test User", principal.Name)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		tok, err := auth.Login(ctx, "test1", "pw12345")
		require.NoError(t, err)

		clock.Advance(service.DefaultTokenTTL + time.Second)

		_, err = auth.Identify(ctx, tok.Value)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("login after expiry issues a fresh working token", func(t *testing.T) {
		tok, err := auth.Login(ctx, "test1", "pw12345")
		require.NoError(t, err)

		principal, err := auth.Identify(ctx, tok.Value)
		require.NoError(t, err)
		require.Equal(t, userID, principal.UserID)
	})
}

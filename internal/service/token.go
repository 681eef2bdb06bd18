package service

import (
	"context"
	"errors"
	"time"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/store"
	"github.com/paytrack/authd/pkg/cryptox"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 5 * time.Minute

// TokenService manages the per-user access token lifecycle:
// NoToken -> Valid (on issue) -> Expired (time passes) -> NoToken (next
// issue deletes and recreates). Expiry is a computed predicate; no sweeper
// ever runs.
type TokenService struct {
	Store store.Store
	TTL   time.Duration

	// Now is the clock used for expiry decisions. Nil means time.Now; tests
	// substitute a fixed clock.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTokenTTL
}

// Issue returns the user's valid token, minting a new one only when none
// exists or the existing one has expired. A still-valid token is returned
// untouched; its expiry is never extended. The read-check-replace sequence
// runs in one transaction so concurrent logins for the same user serialize
// on the database write lock.
func (s *TokenService) Issue(ctx context.Context, userID int64) (domain.Token, error) {
	var issued domain.Token

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := s.now()

		current, err := tx.Tokens().GetTokenByUserID(ctx, userID)
		switch {
		case err == nil && current.Valid(now):
			issued = current
			return nil
		case err == nil:
			// Expired: replace rather than update in place so the old value
			// stops resolving immediately.
			if err := tx.Tokens().DeleteToken(ctx, current.Value); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		value, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return err
		}

		issued = domain.Token{
			Value:     value,
			UserID:    userID,
			ExpiresAt: now.Add(s.ttl()),
		}
		return tx.Tokens().CreateToken(ctx, issued)
	})
	if err != nil {
		return domain.Token{}, err
	}

	return issued, nil
}

// FindByUser returns the current token row for a user regardless of
// validity. Callers check Valid themselves.
func (s *TokenService) FindByUser(ctx context.Context, userID int64) (domain.Token, error) {
	return s.Store.Tokens().GetTokenByUserID(ctx, userID)
}

// FindUserByToken is the reverse lookup by exact token value.
func (s *TokenService) FindUserByToken(ctx context.Context, value string) (int64, error) {
	t, err := s.Store.Tokens().GetTokenByValue(ctx, value)
	if err != nil {
		return 0, err
	}
	return t.UserID, nil
}

// Revoke deletes the token with the given value; revoking an unknown value
// is a no-op.
func (s *TokenService) Revoke(ctx context.Context, value string) error {
	return s.Store.Tokens().DeleteToken(ctx, value)
}

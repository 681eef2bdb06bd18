package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/store"
)

var (
	// ErrLoginNotFound and ErrInvalidCredentials are deliberately distinct:
	// the login endpoint reports them separately.
	ErrLoginNotFound      = errors.New("login not found")
	ErrInvalidCredentials = errors.New("incorrect login or password")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("token expired")
	// ErrUserNotFound flags an inconsistency between the token table and the
	// user table.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService orchestrates the user directory and the token store: login
// turns credentials into a token, Identify turns a bearer token back into
// the acting user.
type AuthService struct {
	Users  *UserService
	Tokens *TokenService
}

// Login validates the login/password pair and returns the token the caller
// should receive. A valid pre-existing token is returned as-is.
func (s *AuthService) Login(ctx context.Context, login, password string) (domain.Token, error) {
	exists, err := s.Users.Exists(ctx, login)
	if err != nil {
		return domain.Token{}, fmt.Errorf("looking up login: %w", err)
	}
	if !exists {
		return domain.Token{}, ErrLoginNotFound
	}

	ok, err := s.Users.VerifyCredentials(ctx, login, password)
	if err != nil {
		return domain.Token{}, fmt.Errorf("verifying credentials: %w", err)
	}
	if !ok {
		return domain.Token{}, ErrInvalidCredentials
	}

	userID, err := s.Users.FindIDByLogin(ctx, login)
	if err != nil {
		return domain.Token{}, fmt.Errorf("resolving user id: %w", err)
	}

	return s.Tokens.Issue(ctx, userID)
}

// Identify resolves a bearer token to the acting user. The token is first
// reverse-looked-up, then the user's current token row is re-fetched and its
// validity checked; that re-fetch is how expiry is enforced.
func (s *AuthService) Identify(ctx context.Context, tokenValue string) (domain.Principal, error) {
	userID, err := s.Tokens.FindUserByToken(ctx, tokenValue)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, ErrNotAuthenticated
	}
	if err != nil {
		return domain.Principal{}, err
	}

	token, err := s.Tokens.FindByUser(ctx, userID)
	if err != nil {
		return domain.Principal{}, err
	}
	if !token.Valid(s.Tokens.now()) {
		return domain.Principal{}, ErrTokenExpired
	}

	profile, err := s.Users.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, ErrUserNotFound
	}
	if err != nil {
		return domain.Principal{}, err
	}

	return domain.Principal{UserID: userID, Name: profile.Name}, nil
}

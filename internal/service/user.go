package service

import (
	"context"
	"errors"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/store"
	"github.com/paytrack/authd/pkg/cryptox"
)

// ErrLoginTaken is returned by Register when another user already holds the
// login under case-folding.
var ErrLoginTaken = errors.New("login already exists")

// UserService is the user directory: identity records keyed by a unique
// case-insensitive login, with credential handling delegated to the hasher.
type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

// FindIDByLogin resolves a login to a user id, case-insensitively. Returns
// store.ErrNotFound when no such user exists.
func (s *UserService) FindIDByLogin(ctx context.Context, login string) (int64, error) {
	u, err := s.Store.Users().GetUserByLogin(ctx, login)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// Exists reports whether a user with the given login exists.
func (s *UserService) Exists(ctx context.Context, login string) (bool, error) {
	_, err := s.FindIDByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// VerifyCredentials reports whether the login/password pair is valid. An
// unknown login verifies false rather than erroring.
func (s *UserService) VerifyCredentials(ctx context.Context, login, password string) (bool, error) {
	u, err := s.Store.Users().GetUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.Hasher.VerifyPassword(password, u.Credential), nil
}

// Register creates a new user with a freshly encoded credential and returns
// the assigned id. Fails with ErrLoginTaken, without side effects, when the
// login is already in use.
func (s *UserService) Register(ctx context.Context, name, login, password string) (int64, error) {
	exists, err := s.Exists(ctx, login)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrLoginTaken
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{
		Name:       name,
		Login:      login,
		Credential: s.Hasher.EncodeCredential(password),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent registration; the unique index is
		// the authority.
		return 0, ErrLoginTaken
	}
	return id, err
}

// GetProfile returns the minimal display projection of a user.
func (s *UserService) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{ID: u.ID, Name: u.Name}, nil
}

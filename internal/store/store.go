package store

import (
	"context"
	"errors"

	"github.com/paytrack/authd/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories per entity instead of an
// active-record hierarchy; each repo only carries the operations its entity
// needs.
type Store interface {
	Users() Users
	Tokens() Tokens
	Salaries() Salaries

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back when fn returns an
	// error, committed otherwise. Preferred over Tx for multi-step writes
	// such as token replacement.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByLogin looks a user up by login, case-insensitively.
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)

	// CreateUser inserts a new user and returns the assigned id. Returns
	// ErrAlreadyExists when another row holds the same login under
	// case-folding.
	CreateUser(ctx context.Context, u domain.User) (int64, error)
}

type Tokens interface {
	// GetTokenByUserID returns the current token row for a user regardless
	// of validity; callers check expiry themselves.
	GetTokenByUserID(ctx context.Context, userID int64) (domain.Token, error)

	// GetTokenByValue is the reverse lookup, matching the value exactly.
	GetTokenByValue(ctx context.Context, value string) (domain.Token, error)

	// CreateToken inserts a new token row.
	CreateToken(ctx context.Context, t domain.Token) error

	// DeleteToken removes the row with the given value. Deleting a value
	// that does not exist is not an error.
	DeleteToken(ctx context.Context, value string) error
}

type Salaries interface {
	// UpsertSalary inserts the salary row for a user or replaces the
	// existing one.
	UpsertSalary(ctx context.Context, s domain.Salary) error

	// GetSalaryByUserID returns the salary row for a user.
	GetSalaryByUserID(ctx context.Context, userID int64) (domain.Salary, error)
}

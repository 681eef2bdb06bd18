package domain

import "time"

// TokenType is the fixed token-type label returned to clients.
const TokenType = "Bearer"

// Token is an opaque bearer capability proving a user has recently
// authenticated. At most one row exists per user; expiry is a computed
// predicate, not a stored state.
type Token struct {
	Value     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the token is still live at the given instant.
func (t Token) Valid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

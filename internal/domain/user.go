package domain

import "time"

// User is an identity record. Logins are unique case-insensitively; the
// credential holds only the hashed+salted password form, never plaintext.
type User struct {
	ID         int64
	Name       string
	Login      string
	Credential string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile is the minimal projection of a user used for display and the
// salary linkage.
type Profile struct {
	ID   int64
	Name string
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID int64
	Name   string
}

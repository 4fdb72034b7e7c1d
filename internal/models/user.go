package models

import "time"

// User represents a registered user account.
// Users are identified by email; all per-user data is keyed by the
// lower-cased address.
type User struct {
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"password"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a user with the given email and password hash.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

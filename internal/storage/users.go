package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/spendbook/internal/models"
)

// Users persists user accounts in a Store under user:{email}.
type Users struct {
	store Store
}

// NewUsers creates a user repository on top of store.
func NewUsers(store Store) *Users {
	return &Users{store: store}
}

// CreateUser stores a new user record, keyed by its normalized email.
func (u *Users) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	if err := SaveJSON(ctx, u.store, UserKey(user.Email), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user registered under email, or ErrNotFound.
func (u *Users) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, _, err := LoadJSON[models.User](ctx, u.store, UserKey(email))
	if err != nil {
		return nil, err
	}
	return &user, nil
}

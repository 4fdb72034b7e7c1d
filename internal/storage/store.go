// Package storage provides abstractions for persistent data storage.
//
// Data is kept in a key-value store: each key holds one user's whole
// collection for one entity type. Writes replace the value; there is no
// row-level update and no versioning between writers.
package storage

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound is returned by Store.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store defines the interface for key-value storage operations.
// This abstraction allows swapping storage backends (SQLite, MongoDB,
// Supabase, in-memory) without changing the service layer.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// NormalizeEmail trims and lowercases an email address so that per-user keys
// do not depend on how the address was typed.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// ItemsKey is the key of a user's item catalog.
func ItemsKey(email string) string { return "items:" + NormalizeEmail(email) }

// TransactionsKey is the key of a user's transaction ledger.
func TransactionsKey(email string) string { return "transactions:" + NormalizeEmail(email) }

// SettingsKey is the key of a user's settings record.
func SettingsKey(email string) string { return "settings:" + NormalizeEmail(email) }

// UserKey is the key of a user's account record.
func UserKey(email string) string { return "user:" + NormalizeEmail(email) }

// Package supabase provides a storage.Store backed by a Supabase (PostgREST)
// table with the columns key (primary key), value (text) and updated_at.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"github.com/mmynk/spendbook/internal/storage"
)

// TableName is the table holding the key-value rows.
const TableName = "kv_store"

var _ storage.Store = (*Store)(nil)

type row struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Store implements storage.Store over the PostgREST API.
// The client has no context support, so ctx is only checked before each call.
type Store struct {
	client *supa.Client
}

// New creates a Supabase client for url and key.
func New(url, key string) (*Store, error) {
	client, err := supa.NewClient(url, key, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := s.client.From(TableName).
		Select("key,value", "", false).
		Eq("key", key).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return decodeValue(data)
}

// Set upserts the row for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := row{Key: key, Value: string(value), UpdatedAt: time.Now().UTC().Format(time.RFC3339)}
	if _, _, err := s.client.From(TableName).Insert(r, true, "key", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes the row for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(TableName).Delete("", "").Eq("key", key).Execute(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the client holds no long-lived connections.
func (s *Store) Close() error { return nil }

// decodeValue extracts the value of the first row of a PostgREST response.
func decodeValue(data []byte) ([]byte, error) {
	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return []byte(rows[0].Value), nil
}

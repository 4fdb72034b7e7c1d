package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every stored document. Values stored before
// documents were versioned are read back as version 0.
const SchemaVersion = 1

type document struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// LoadJSON reads key and decodes its payload into a T. It returns the schema
// version the value was written with so callers can decide whether an
// upgraded value needs to be written back. Unversioned values (a bare JSON
// array or object) decode as version 0.
func LoadJSON[T any](ctx context.Context, s Store, key string) (T, int, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return out, 0, err
	}

	payload, version := unwrap(raw)
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, 0, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return out, version, nil
}

// SaveJSON encodes v as the current document version and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	raw, err := json.Marshal(document{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func unwrap(raw []byte) (json.RawMessage, int) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, 0
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil || doc.Version == 0 || len(doc.Data) == 0 {
		return raw, 0
	}
	return doc.Data, doc.Version
}

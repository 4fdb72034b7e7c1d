// Package events publishes a notification after every successful write of a
// user's collection, so other processes (sync workers, caches) can refresh.
package events

import (
	"context"
	"time"
)

// Event types, also used as AMQP routing keys.
const (
	ItemsUpdated        = "items.updated"
	TransactionsUpdated = "transactions.updated"
	SettingsUpdated     = "settings.updated"
	UserRegistered      = "user.registered"
)

// Event describes a replaced collection.
type Event struct {
	Type  string    `json:"type"`
	User  string    `json:"user"`
	Count int       `json:"count"`
	At    time.Time `json:"at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

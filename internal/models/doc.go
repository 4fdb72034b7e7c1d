// Package models defines the core domain models for Spendbook.
//
// # Models
//
//   - Item: a reusable catalog entry with a default unit price and category
//   - Transaction: a dated purchase or sale, optionally linked to an Item
//   - Settings: per-user budget and view preferences
//   - User: a registered account, identified by its lower-cased email
//
// # Persistence shape
//
// Items, transactions and settings are stored as one serialized collection per
// user and entity type. A write replaces the whole collection, so concurrent
// writers for the same user follow last-writer-wins.
//
// # Legacy records
//
// Records written before ids, types and quantities existed are upgraded on load
// by the pure functions in upgrade.go. Callers persist the upgraded collection
// once, so later reads see the current shape.
package models

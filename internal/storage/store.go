// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no value exists for a key. A fresh
// install has no documents yet; stores treat this as "start empty".
var ErrNotFound = errors.New("storage: key not found")

// Store is an opaque key-value document store. Each logical store in the
// app persists a single JSON document under its own key. The interface
// mirrors the device storage the original data lives in, so backends
// (SQLite file, in-memory, ...) are swappable without touching the stores.
type Store interface {
	// Load returns the document stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save durably writes the document under key, replacing any previous
	// value for that key.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// Keys of the documents the app persists. These match the storage
// namespaces of existing data and must not change.
const (
	KeyGroups        = "group-storage"
	KeyExpenses      = "expense-storage"
	KeyInvestments   = "investment-storage"
	KeySubscriptions = "subscription-storage"
	KeySettings      = "settings-storage"
)

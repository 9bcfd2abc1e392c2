// Package storage implements ports.KeyValueStore over a pluggable byte
// backend: a namespaced SQLite table or a flat local map.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Backend when a key has no value.
var ErrKeyNotFound = errors.New("key not found")

// Backend stores raw bytes under string keys inside one namespace.
// Unlike Store, it reports every failure.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value for key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key in the backend's namespace.
	Clear(ctx context.Context) error

	// Size returns the bytes held by the namespace, keys included.
	Size(ctx context.Context) (int64, error)

	// Ping verifies the backend is usable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}

// Package storage defines the key-value contract backing quiz session records.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrConflict is returned when an atomic Update keeps losing against
	// concurrent writers after exhausting its retries.
	ErrConflict = errors.New("storage: concurrent update conflict")
)

// Store is a minimal key-value store over UTF-8 text blobs.
//
// Update is the concurrency primitive the session engine relies on: it applies
// fn to the current value and commits the result only if no concurrent writer
// has touched the key in between. A ttl of zero keeps the key forever.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX writes the value only if the key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Update atomically transforms the value under key. fn is not called when
	// the key is absent; Update then returns ErrNotFound. An error returned by
	// fn aborts the update and is propagated unchanged.
	Update(ctx context.Context, key string, ttl time.Duration, fn func(current string) (string, error)) error
	Delete(ctx context.Context, key string) error
}

// Package kvstore is the durable string key -> string value storage every
// persisted collection of the booking engine sits on. Values are opaque at
// this boundary; callers serialize above it. A Store has one logical writer
// and makes no multi-key transactional promise: each Set must leave its key
// complete on its own.
package kvstore

import (
	"context"
	"fmt"
)

// Store is the port implemented by every backend (memory, Redis, MySQL,
// Postgres) and by the Sealed decorator.
//
// Get reports ok=false with a nil error when the key is absent. Delete of an
// absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StoreError reports that the underlying store operation itself failed.
// Op is one of get, set, delete, encode, decode, seal or open.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("kvstore: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Wrap returns nil when err is nil, err itself when it already is a
// *StoreError, and a new *StoreError otherwise.
func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StoreError); ok {
		return se
	}
	return &StoreError{Op: op, Key: key, Err: err}
}

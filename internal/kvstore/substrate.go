// Package kvstore is the string-keyed persistence layer underneath the
// profile and meal plan store.
package kvstore

import (
	"context"
	"errors"
)

// ErrConflict is returned by Update when the value kept changing under it.
var ErrConflict = errors.New("kvstore: concurrent update conflict")

// UpdateFunc receives the current value of a key (ok is false when absent)
// and returns the value to store. Returning an error aborts the update.
type UpdateFunc func(current string, ok bool) (string, error)

// Substrate is a string key-value store. Implementations must make MultiSet,
// MultiRemove and Update atomic.
type Substrate interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	MultiSet(ctx context.Context, entries map[string]string) error
	MultiRemove(ctx context.Context, keys ...string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"meal-planner/internal/logger"
)

// ErrCorrupt marks a stored value that is not valid JSON for its type.
var ErrCorrupt = errors.New("kvstore: stored value is corrupt")

// Adapter exposes string and JSON access on top of a Substrate. Plain reads and
// writes never return errors: failures are logged and reported as absent/false.
type Adapter struct {
	substrate Substrate
	log       *zap.Logger
}

// NewAdapter creates an Adapter over substrate.
func NewAdapter(substrate Substrate, log *zap.Logger) *Adapter {
	return &Adapter{substrate: substrate, log: logger.OrNop(log)}
}

// GetString returns the stored value and true, or "" and false when the key is
// absent or the read failed.
func (a *Adapter) GetString(ctx context.Context, key string) (string, bool) {
	v, ok, err := a.substrate.Get(ctx, key)
	if err != nil {
		a.log.Error("Error getting value", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// SetString stores value under key and reports whether the write succeeded.
func (a *Adapter) SetString(ctx context.Context, key, value string) bool {
	if err := a.substrate.Set(ctx, key, value); err != nil {
		a.log.Error("Error setting value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetMany writes all entries atomically and reports whether it succeeded.
func (a *Adapter) SetMany(ctx context.Context, entries map[string]string) bool {
	if err := a.substrate.MultiSet(ctx, entries); err != nil {
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		a.log.Error("Error setting values", zap.Strings("keys", keys), zap.Error(err))
		return false
	}
	return true
}

// RemoveMany deletes keys atomically. Unlike the other writes, the error is
// returned to the caller.
func (a *Adapter) RemoveMany(ctx context.Context, keys ...string) error {
	if err := a.substrate.MultiRemove(ctx, keys...); err != nil {
		a.log.Error("Error removing values", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}

// GetJSON decodes the value stored under key. It returns (nil, nil) when the
// key is absent or unreadable, and an error wrapping ErrCorrupt when the stored
// text is not valid JSON for T.
func GetJSON[T any](ctx context.Context, a *Adapter, key string) (*T, error) {
	raw, ok := a.GetString(ctx, key)
	if !ok || raw == "" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", ErrCorrupt, key, err)
	}
	return &out, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON[T any](ctx context.Context, a *Adapter, key string, value T) bool {
	data, err := json.Marshal(value)
	if err != nil {
		a.log.Error("Error encoding value", zap.String("key", key), zap.Error(err))
		return false
	}
	return a.SetString(ctx, key, string(data))
}

// UpdateJSON atomically replaces the value under key with fn(current), where
// current is nil when the key is absent. Corrupt stored data aborts the update
// with ErrCorrupt.
func UpdateJSON[T any](ctx context.Context, a *Adapter, key string, fn func(current *T) (T, error)) error {
	err := a.substrate.Update(ctx, key, func(raw string, ok bool) (string, error) {
		var current *T
		if ok && raw != "" {
			var decoded T
			if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
				return "", fmt.Errorf("%w: key %s: %v", ErrCorrupt, key, err)
			}
			current = &decoded
		}
		next, err := fn(current)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return "", fmt.Errorf("failed to encode value for key %s: %w", key, err)
		}
		return string(data), nil
	})
	if err != nil {
		a.log.Error("Error updating value", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

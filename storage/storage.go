// Package storage layers JSON-aware get/set/delete on top of a string
// key-value store.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
)

// Adapter reads and writes structured values through a ports.Store
type Adapter struct {
	store ports.Store
}

// New wraps store
func New(store ports.Store) *Adapter {
	return &Adapter{store: store}
}

// Raw returns the stored string and whether the key exists
func (a *Adapter) Raw(ctx context.Context, key string) (string, bool, error) {
	v, err := a.store.Get(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set writes strings verbatim and everything else as JSON
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	if s, ok := value.(string); ok {
		return a.store.Set(ctx, key, s)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return a.store.Set(ctx, key, string(raw))
}

// Delete removes key; a missing key is not an error
func (a *Adapter) Delete(ctx context.Context, key string) error {
	return a.store.Delete(ctx, key)
}

// Get reads key into a T. A missing key yields def. When T is string the raw
// value is returned untouched. A value that does not decode as T yields the raw
// string if T is any, def otherwise. Only backend failures are returned.
func Get[T any](ctx context.Context, a *Adapter, key string, def T) (T, error) {
	raw, ok, err := a.Raw(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}

	if s, isString := any(raw).(T); isString {
		if _, wantString := any(def).(string); wantString {
			return s, nil
		}
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if s, isAny := any(raw).(T); isAny {
			return s, nil
		}
		return def, nil
	}
	return out, nil
}

// Package memory is an in-process backend for the repository interfaces.
// It keeps the same uniqueness rules as the Postgres schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"skill-matrix/internal/apperrors"
)

type record interface {
	Key() int64
}

// table is one guarded map of rows. uniq, when set, returns the value that
// must be unique among rows for which ok is true.
type table[T record] struct {
	mu     sync.RWMutex
	name   string
	rows   map[int64]T
	nextID int64
	setKey func(v *T, id int64)
	uniq   func(v T) (key string, ok bool)
}

func newTable[T record](name string, setKey func(*T, int64), uniq func(T) (string, bool)) *table[T] {
	return &table[T]{name: name, rows: map[int64]T{}, setKey: setKey, uniq: uniq}
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	return t.filter(ctx, nil)
}

func (t *table[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
	}
	return v, nil
}

func (t *table[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkUnique(v, 0); err != nil {
		return zero, err
	}
	t.nextID++
	t.setKey(&v, t.nextID)
	t.rows[t.nextID] = v
	return v, nil
}

func (t *table[T]) Update(ctx context.Context, v T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	id := v.Key()
	if _, ok := t.rows[id]; !ok {
		return zero, fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
	}
	if err := t.checkUnique(v, id); err != nil {
		return zero, err
	}
	t.rows[id] = v
	return v, nil
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
	}
	delete(t.rows, id)
	return nil
}

// filter returns matching rows ordered by id. A nil match keeps every row.
func (t *table[T]) filter(ctx context.Context, match func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (t *table[T]) first(ctx context.Context, match func(T) bool) (T, bool, error) {
	rows, err := t.filter(ctx, match)
	if err != nil || len(rows) == 0 {
		var zero T
		return zero, false, err
	}
	return rows[0], true, nil
}

// checkUnique must run under the write lock. self is the id being updated.
func (t *table[T]) checkUnique(v T, self int64) error {
	if t.uniq == nil {
		return nil
	}
	key, ok := t.uniq(v)
	if !ok {
		return nil
	}
	for id, other := range t.rows {
		if id == self {
			continue
		}
		if k, ok := t.uniq(other); ok && k == key {
			return fmt.Errorf("%s: %w", t.name, apperrors.ErrConflict)
		}
	}
	return nil
}

package kvstore

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
)

var _ Batch = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo
type InMemoryRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryRepo creates a new, empty in-memory repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		values: make(map[string]string),
	}
}

func (r *InMemoryRepo) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, apperrors.ErrEmptyKey
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	return v, ok, nil
}

func (r *InMemoryRepo) Set(_ context.Context, key, value string) error {
	if key == "" {
		return apperrors.ErrEmptyKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

func (r *InMemoryRepo) Remove(_ context.Context, key string) error {
	if key == "" {
		return apperrors.ErrEmptyKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key) // Already doesn't exist, no error
	return nil
}

// SetAll writes every entry under a single lock
func (r *InMemoryRepo) SetAll(_ context.Context, values map[string]string) error {
	for k := range values {
		if k == "" {
			return apperrors.ErrEmptyKey
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

// RemoveAll deletes every key under a single lock
func (r *InMemoryRepo) RemoveAll(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

// Len reports the number of stored keys.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

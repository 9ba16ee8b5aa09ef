package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/flatgraph/pkg/observability"
)

// ObservedStore wraps a Store and reports every operation to the global
// observability store hooks. A miss on Get is reported as found=false
// rather than as an error; everything else that fails reaches
// OnStoreError with the operation name.
type ObservedStore struct {
	inner Store
}

// NewObserved wraps s with hook instrumentation. The hooks are looked up
// per call, so installing hooks after construction still takes effect.
func NewObserved(s Store) *ObservedStore {
	return &ObservedStore{inner: s}
}

// Get returns the document stored under name.
func (s *ObservedStore) Get(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, name)

	switch {
	case err == nil:
		observability.Store().OnStoreGet(ctx, name, true, time.Since(start))
	case errors.Is(err, ErrNotFound):
		observability.Store().OnStoreGet(ctx, name, false, time.Since(start))
	default:
		observability.Store().OnStoreError(ctx, "get", name, err)
	}
	return data, err
}

// Put stores a document under name.
func (s *ObservedStore) Put(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := s.inner.Put(ctx, name, data)

	if err != nil {
		observability.Store().OnStoreError(ctx, "put", name, err)
		return err
	}
	observability.Store().OnStorePut(ctx, name, len(data), time.Since(start))
	return nil
}

// Delete removes the document stored under name.
func (s *ObservedStore) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, name)

	if err != nil && !errors.Is(err, ErrNotFound) {
		observability.Store().OnStoreError(ctx, "delete", name, err)
		return err
	}
	observability.Store().OnStoreDelete(ctx, name, time.Since(start))
	return err
}

// List returns the stored document names in lexical order.
func (s *ObservedStore) List(ctx context.Context) ([]string, error) {
	names, err := s.inner.List(ctx)
	if err != nil {
		observability.Store().OnStoreError(ctx, "list", "", err)
	}
	return names, err
}

// Close releases resources held by the wrapped store.
func (s *ObservedStore) Close() error { return s.inner.Close() }

var _ Store = (*ObservedStore)(nil)

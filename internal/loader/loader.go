// Package loader implements the request-scoped batching data-access layer.
//
// A Loader coalesces single-key lookups issued during one resolution phase
// into a single multi-key gateway call. Load registers the key and returns a
// thunk immediately; the first thunk that is resolved closes the open batch
// and fetches every pending key at once. Repeated loads of the same key
// return the memoized thunk, so each key is fetched at most once per loader
// lifetime.
//
// The two-phase contract matters: callers must issue every Load of one
// resolution step before resolving any thunk. Resolving a thunk between
// loads closes the batch early and degrades back to one query per key.
//
// A Loader's cache has no eviction policy. Loaders are created per request
// and must never be shared across requests.
package loader

import (
	"context"
	"sync"

	"github.com/staffdeck/attendance-service/internal/metrics"
)

// Thunk is a deferred result. Calling it blocks until the batch containing
// its key has been fetched, then yields the value for that key.
type Thunk[V any] func() (V, error)

// BatchFunc fetches values for a set of deduplicated keys in one gateway
// call. Keys absent from the returned map resolve to the loader's fallback.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Loader batches and caches lookups for one access pattern within one
// request lifecycle. Safe for concurrent use.
type Loader[K comparable, V any] struct {
	name     string
	batchFn  BatchFunc[K, V]
	fallback func(K) V

	mu      sync.Mutex
	cache   map[K]Thunk[V]
	pending *batch[K, V]
}

// batch accumulates keys until the first thunk resolution flushes it.
type batch[K comparable, V any] struct {
	keys    []K
	once    sync.Once
	results map[K]V
	err     error
}

// New creates a loader whose thunks resolve missing keys to the zero value
// of V (nil for pointer-shaped results).
func New[K comparable, V any](name string, batchFn BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		name:    name,
		batchFn: batchFn,
		cache:   make(map[K]Thunk[V]),
	}
}

// NewWithFallback creates a loader that substitutes fallback(key) for keys
// absent from the batch result. List-shaped loaders use this to guarantee
// an empty, non-nil slice instead of a missing entry.
func NewWithFallback[K comparable, V any](name string, batchFn BatchFunc[K, V], fallback func(K) V) *Loader[K, V] {
	l := New(name, batchFn)
	l.fallback = fallback
	return l
}

// Load registers key in the open batch and returns a thunk for its value.
// The same key always yields the same thunk for the life of the loader.
func (l *Loader[K, V]) Load(ctx context.Context, key K) Thunk[V] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if thunk, ok := l.cache[key]; ok {
		return thunk
	}

	if l.pending == nil {
		l.pending = &batch[K, V]{}
	}
	b := l.pending
	b.keys = append(b.keys, key)

	thunk := func() (V, error) {
		b.once.Do(func() { l.flush(ctx, b) })
		if b.err != nil {
			var zero V
			return zero, b.err
		}
		if value, ok := b.results[key]; ok {
			return value, nil
		}
		if l.fallback != nil {
			return l.fallback(key), nil
		}
		var zero V
		return zero, nil
	}
	l.cache[key] = thunk
	return thunk
}

// LoadValue is a convenience for callers outside a batching phase: it
// registers the key and resolves the thunk immediately.
func (l *Loader[K, V]) LoadValue(ctx context.Context, key K) (V, error) {
	return l.Load(ctx, key)()
}

// flush closes the batch b and issues the single gateway call. All thunks
// belonging to b observe the same result set or the same error.
func (l *Loader[K, V]) flush(ctx context.Context, b *batch[K, V]) {
	l.mu.Lock()
	if l.pending == b {
		l.pending = nil
	}
	keys := b.keys
	l.mu.Unlock()

	metrics.LoaderFlushes.WithLabelValues(l.name).Inc()
	metrics.LoaderBatchSize.WithLabelValues(l.name).Observe(float64(len(keys)))

	results, err := l.batchFn(ctx, keys)
	if err != nil {
		metrics.LoaderErrors.WithLabelValues(l.name).Inc()
		b.err = err
		return
	}
	b.results = results
}

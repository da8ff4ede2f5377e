package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBatch counts gateway calls and remembers the key sets they
// carried.
type recordingBatch struct {
	mu    sync.Mutex
	calls [][]string
	fail  error
	data  map[string]string
}

func (b *recordingBatch) fn(_ context.Context, keys []string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, append([]string(nil), keys...))
	if b.fail != nil {
		return nil, b.fail
	}
	results := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := b.data[key]; ok {
			results[key] = value
		}
	}
	return results, nil
}

func TestLoadCoalescesDistinctKeysIntoOneBatch(t *testing.T) {
	batch := &recordingBatch{data: map[string]string{"a": "1", "b": "2", "c": "3"}}
	l := New("test", batch.fn)
	ctx := context.Background()

	// Collect phase: issue every load before resolving any thunk.
	thunks := []Thunk[string]{
		l.Load(ctx, "a"),
		l.Load(ctx, "b"),
		l.Load(ctx, "c"),
		l.Load(ctx, "a"), // duplicate must not widen the batch
		l.Load(ctx, "b"),
	}

	for i, thunk := range thunks {
		value, err := thunk()
		require.NoError(t, err, "thunk %d", i)
		assert.NotEmpty(t, value)
	}

	require.Len(t, batch.calls, 1, "all loads in one window must produce exactly one gateway call")
	assert.Equal(t, []string{"a", "b", "c"}, batch.calls[0], "batch carries deduplicated keys in request order")
}

func TestLoadMemoizesPerKey(t *testing.T) {
	batch := &recordingBatch{data: map[string]string{"a": "1"}}
	l := New("test", batch.fn)
	ctx := context.Background()

	first, err := l.Load(ctx, "a")()
	require.NoError(t, err)

	// A repeat load after the flush must hit the cache, not the gateway.
	second, err := l.Load(ctx, "a")()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, batch.calls, 1)
}

func TestLoadAfterFlushStartsNewBatch(t *testing.T) {
	batch := &recordingBatch{data: map[string]string{"a": "1", "b": "2"}}
	l := New("test", batch.fn)
	ctx := context.Background()

	_, err := l.Load(ctx, "a")()
	require.NoError(t, err)
	_, err = l.Load(ctx, "b")()
	require.NoError(t, err)

	// Resolving between loads degrades to one call per key. That is the
	// documented cost of breaking the two-phase contract.
	require.Len(t, batch.calls, 2)
	assert.Equal(t, []string{"a"}, batch.calls[0])
	assert.Equal(t, []string{"b"}, batch.calls[1])
}

func TestMissingScalarKeyResolvesToNil(t *testing.T) {
	type row struct{ ID string }
	l := New("test", func(_ context.Context, keys []string) (map[string]*row, error) {
		return map[string]*row{}, nil
	})

	value, err := l.Load(context.Background(), "absent")()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMissingListKeyResolvesToEmptySlice(t *testing.T) {
	l := NewWithFallback("test",
		func(_ context.Context, keys []string) (map[string][]string, error) {
			return map[string][]string{}, nil
		},
		func(string) []string { return []string{} },
	)

	value, err := l.Load(context.Background(), "absent")()
	require.NoError(t, err)
	require.NotNil(t, value, "list loaders must never resolve to nil")
	assert.Empty(t, value)
}

func TestBatchFailurePropagatesToEveryWaiter(t *testing.T) {
	gatewayDown := errors.New("gateway unavailable")
	batch := &recordingBatch{fail: gatewayDown}
	l := New("test", batch.fn)
	ctx := context.Background()

	thunkA := l.Load(ctx, "a")
	thunkB := l.Load(ctx, "b")

	_, errA := thunkA()
	_, errB := thunkB()

	require.ErrorIs(t, errA, gatewayDown)
	require.ErrorIs(t, errB, gatewayDown)
	assert.Len(t, batch.calls, 1, "a failed flush is not retried")
}

func TestConcurrentLoadsIssueOneBatch(t *testing.T) {
	const loads = 50
	batch := &recordingBatch{data: map[string]string{}}
	for i := 0; i < 10; i++ {
		batch.data[fmt.Sprintf("key-%d", i)] = fmt.Sprintf("value-%d", i)
	}
	l := New("test", batch.fn)
	ctx := context.Background()

	// Register all keys before any resolution.
	thunks := make([]Thunk[string], loads)
	for i := 0; i < loads; i++ {
		thunks[i] = l.Load(ctx, fmt.Sprintf("key-%d", i%10))
	}

	var wg sync.WaitGroup
	for i := range thunks {
		wg.Add(1)
		go func(thunk Thunk[string]) {
			defer wg.Done()
			value, err := thunk()
			assert.NoError(t, err)
			assert.NotEmpty(t, value)
		}(thunks[i])
	}
	wg.Wait()

	require.Len(t, batch.calls, 1)
	assert.Len(t, batch.calls[0], 10, "batch carries exactly the distinct keys")
}

func TestLoadValueResolvesImmediately(t *testing.T) {
	batch := &recordingBatch{data: map[string]string{"a": "1"}}
	l := New("test", batch.fn)

	value, err := l.LoadValue(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

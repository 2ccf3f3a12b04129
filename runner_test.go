package conform

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	require.NotNil(t, runner)

	_, ok := runner.(*errGroupRunner)
	assert.True(t, ok, "DefaultRunner should return *errGroupRunner, got %T", runner)
}

func TestErrGroupRunner_PropagatesFirstError(t *testing.T) {
	runner := DefaultRunner(context.Background())
	boom := errors.New("boom")

	runner.Go(func() error { return nil })
	runner.Go(func() error { return boom })

	assert.ErrorIs(t, runner.Wait(), boom)
}

func TestLimitedRunner_BoundsConcurrency(t *testing.T) {
	runner := NewLimitedRunner(context.Background(), 1)

	var active, peak int32
	for i := 0; i < 4; i++ {
		runner.Go(func() error {
			n := atomic.AddInt32(&active, 1)
			if n > atomic.LoadInt32(&peak) {
				atomic.StoreInt32(&peak, n)
			}
			atomic.AddInt32(&active, -1)
			return nil
		})
	}

	require.NoError(t, runner.Wait())
	assert.LessOrEqual(t, peak, int32(1))
}

func TestGenerateBatch(t *testing.T) {
	c, inv := NewForTesting(`{"mood": "happy"}`)

	items, err := c.GenerateBatch(context.Background(), "sys",
		[]string{"one", "two", "three"},
		Format{"mood": []string{"happy", "sad"}})

	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, "happy", it["mood"])
	}
	assert.Equal(t, 3, inv.Calls())
}

func TestGenerateBatch_ExhaustedInputYieldsNilItem(t *testing.T) {
	c, _ := NewForTesting(`garbage`)

	items, err := c.GenerateBatch(context.Background(), "sys",
		[]string{"one", "two"}, Format{"mood": "x"}, WithMaxAttempts(1))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0])
	assert.Nil(t, items[1])
}

func TestGenerateBatch_TransportErrorCancels(t *testing.T) {
	c := New(&ScriptedInvoker{Err: errors.New("unauthorized")})

	_, err := c.GenerateBatch(context.Background(), "sys",
		[]string{"one", "two"}, Format{"a": "1"})

	require.Error(t, err)
}

func TestGenerateBatch_CustomRunner(t *testing.T) {
	c, _ := NewForTesting(`{"a": "1"}`)
	runner := NewLimitedRunner(context.Background(), 2)

	items, err := c.GenerateBatch(context.Background(), "sys",
		[]string{"x", "y"}, Format{"a": "field"}, WithRunner(runner))

	require.NoError(t, err)
	require.Len(t, items, 2)
}

package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyRooms(n int) []Record {
	rooms := make([]*testRoom, n)
	for i := range rooms {
		rooms[i] = &testRoom{Name: fmt.Sprintf("room-%d", i), Cheers: int64(i)}
	}
	return Records(rooms)
}

func TestConcurrentEvaluatorPreservesOrder(t *testing.T) {
	e := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(10))
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	f, err := NewExprCompiler().Compile(`Cheers % 2 == 0`)
	require.NoError(t, err)

	matches, err := e.Evaluate(context.Background(), f, manyRooms(1000))
	require.NoError(t, err)
	require.Len(t, matches, 500)

	rooms := Matches[*testRoom](matches)
	for i, room := range rooms {
		assert.Equal(t, int64(i*2), room.Cheers)
	}
}

func TestConcurrentEvaluatorEmpty(t *testing.T) {
	e := NewConcurrentEvaluator()
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	f, err := NewExprCompiler().Compile(`true`)
	require.NoError(t, err)

	matches, err := e.Evaluate(context.Background(), f, nil)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestConcurrentEvaluatorCancelled(t *testing.T) {
	e := NewConcurrentEvaluator(WithWorkers(2), WithBatchSize(10))
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	f, err := NewExprCompiler().Compile(`true`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Evaluate(ctx, f, manyRooms(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateBatch(t *testing.T) {
	e := NewConcurrentEvaluator(WithWorkers(2), WithBatchSize(50))
	t.Cleanup(func() { _ = e.Stop(context.Background()) })

	compiler := NewExprCompiler()
	filters := make(map[string]CompiledFilter)
	for name, expression := range map[string]string{
		"low":  `Cheers < 10`,
		"high": `Cheers >= 190`,
	} {
		f, err := compiler.Compile(expression)
		require.NoError(t, err)
		filters[name] = f
	}

	results, err := e.EvaluateBatch(context.Background(), filters, manyRooms(200))
	require.NoError(t, err)
	assert.Len(t, results["low"], 10)
	assert.Len(t, results["high"], 10)
}

func TestWorkerPoolStop(t *testing.T) {
	pool := NewWorkerPool(2)

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(done) }))
	<-done

	require.NoError(t, pool.Stop(context.Background()))
	require.NoError(t, pool.Stop(context.Background()))
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolStopped)
}

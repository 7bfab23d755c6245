package workerpool

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunsSubmittedTask(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 2}, zap.NewNop())
	defer p.Shutdown(context.Background())

	var ran atomic.Bool
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestPoolPropagatesTaskError(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, zap.NewNop())
	defer p.Shutdown(context.Background())

	wantErr := errors.New("task failed")
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, zap.NewNop())
	require.NoError(t, p.Shutdown(context.Background()))

	noop := func(ctx context.Context) error { return nil }
	assert.ErrorIs(t, p.Submit(context.Background(), noop), ErrWorkerPoolClosed)
	assert.ErrorIs(t, p.SubmitAsync(context.Background(), noop), ErrWorkerPoolClosed)
}

func TestPoolReportsFullQueue(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, zap.NewNop())
	defer p.Shutdown(context.Background())

	ctx := context.Background()
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)

	// occupy the single worker, then fill the queue slot
	require.NoError(t, p.SubmitAsync(ctx, func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}))
	<-started
	require.NoError(t, p.SubmitAsync(ctx, func(ctx context.Context) error { return nil }))

	err := p.SubmitAsync(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)
}

package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolProcessesTasks(t *testing.T) {
	var processed int64
	var wg sync.WaitGroup
	wg.Add(3)

	pool := NewPool("test", func(ctx context.Context, task Task) error {
		atomic.AddInt64(&processed, 1)
		wg.Done()
		return nil
	}, PoolConfig{Workers: 2})

	pool.Start(context.Background())
	defer pool.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(Task{ID: "t", Kind: "refresh"}))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks not processed in time")
	}
	assert.EqualValues(t, 3, atomic.LoadInt64(&processed))
}

func TestPoolRetriesFailedTasks(t *testing.T) {
	var attempts int64
	done := make(chan struct{})

	pool := NewPool("test", func(ctx context.Context, task Task) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, PoolConfig{Workers: 1, MaxRetries: 5, RetryDelay: 5 * time.Millisecond})

	pool.Start(context.Background())
	defer pool.Stop()

	require.NoError(t, pool.Submit(Task{ID: "flaky", Kind: "refresh"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never succeeded")
	}
	assert.EqualValues(t, 3, atomic.LoadInt64(&attempts))
}

func TestPoolSubmitBeforeStart(t *testing.T) {
	pool := NewPool("test", func(ctx context.Context, task Task) error { return nil }, PoolConfig{})
	err := pool.Submit(Task{ID: "early"})
	require.Error(t, err)
}

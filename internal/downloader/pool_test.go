package downloader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrab/pkg/logger"
)

func waitResult(t *testing.T, ch <-chan DownloadResult) DownloadResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return DownloadResult{}
	}
}

func TestWorkerPoolRunsJobs(t *testing.T) {
	pool := NewWorkerPool(2, 4, logger.NewTestLogger())
	pool.Start()
	defer pool.Stop()

	var runs atomic.Int32
	var results []<-chan DownloadResult
	for i := 0; i < 4; i++ {
		ch, ok := pool.TrySubmit(context.Background(), DownloadJob{
			ID: "job",
			Run: func(ctx context.Context) error {
				runs.Add(1)
				return nil
			},
		})
		require.True(t, ok)
		results = append(results, ch)
	}

	for _, ch := range results {
		r := waitResult(t, ch)
		assert.True(t, r.Success)
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, int32(4), runs.Load())
	assert.Equal(t, int64(4), pool.Stats().Completed)
}

func TestWorkerPoolReportsFailure(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewTestLogger())
	pool.Start()
	defer pool.Stop()

	boom := errors.New("boom")
	ch, ok := pool.TrySubmit(context.Background(), DownloadJob{
		Run: func(ctx context.Context) error { return boom },
	})
	require.True(t, ok)

	r := waitResult(t, ch)
	assert.False(t, r.Success)
	assert.ErrorIs(t, r.Error, boom)
	assert.Equal(t, int64(1), pool.Stats().Failed)
}

func TestWorkerPoolRefusesWhenFull(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewTestLogger())
	pool.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	blocking := DownloadJob{Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}}

	first, ok := pool.TrySubmit(context.Background(), blocking)
	require.True(t, ok)
	<-started

	queued, ok := pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error { return nil }})
	require.True(t, ok, "one job fits in the queue")

	_, ok = pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok, "queue is full")

	close(release)
	assert.True(t, waitResult(t, first).Success)
	assert.True(t, waitResult(t, queued).Success)

	pool.Stop()
	_, ok = pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok, "stopped pool refuses jobs")
}

func TestWorkerPoolSkipsCancelledJobs(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	ch, ok := pool.TrySubmit(ctx, DownloadJob{Run: func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}})
	require.True(t, ok)
	cancel()

	pool.Start()
	defer pool.Stop()

	r := waitResult(t, ch)
	assert.ErrorIs(t, r.Error, context.Canceled)
	assert.False(t, ran.Load())
}

func TestWorkerPoolRecoversFromPanic(t *testing.T) {
	log := logger.NewTestLogger()
	pool := NewWorkerPool(1, 1, log)
	pool.Start()
	defer pool.Stop()

	ch, ok := pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error {
		panic("bad job")
	}})
	require.True(t, ok)

	r := waitResult(t, ch)
	assert.False(t, r.Success)
	assert.ErrorContains(t, r.Error, "bad job")
	assert.True(t, log.HasMessage("Worker recovered from panic"))

	ch, ok = pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error { return nil }})
	require.True(t, ok)
	assert.True(t, waitResult(t, ch).Success, "worker survives a panic")
}

func TestWorkerPoolStopWithoutStart(t *testing.T) {
	pool := NewWorkerPool(1, 2, logger.NewTestLogger())

	ch, ok := pool.TrySubmit(context.Background(), DownloadJob{Run: func(ctx context.Context) error { return nil }})
	require.True(t, ok)

	pool.Stop()
	r := waitResult(t, ch)
	assert.ErrorIs(t, r.Error, ErrPoolStopped)
	pool.Stop()
}

package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"reelgrab/pkg/logger"
)

// ErrPoolStopped is returned for jobs that could not run because the pool shut down
var ErrPoolStopped = errors.New("worker pool is shutting down")

// DownloadJob is a single reel download handed to the pool
type DownloadJob struct {
	ID  string
	URL string

	// Run performs the download. Its error is reported in the result.
	Run func(ctx context.Context) error
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Error    error
	Duration time.Duration
}

type queuedJob struct {
	ctx  context.Context
	job  DownloadJob
	done chan DownloadResult
}

// WorkerPool runs download jobs on a fixed number of workers with a bounded
// queue. Submissions beyond the queue are refused rather than blocked.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan queuedJob
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	logger     logger.Logger

	mu      sync.RWMutex
	stopped bool
	started bool

	active    atomic.Int32
	completed atomic.Int64
	failed    atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers workers whose queue holds
// queueSize waiting jobs
func NewWorkerPool(numWorkers, queueSize int, log logger.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan queuedJob, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		logger:     log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.stopped {
		return
	}
	wp.started = true

	wp.logger.InfoWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"queue_size":  cap(wp.jobQueue),
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop refuses new jobs, lets the workers finish what is queued and waits
// for them
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.logger.Info("Stopping worker pool...")
	wp.wg.Wait()
	wp.cancel()

	// Jobs still queued when the pool never started
	for q := range wp.jobQueue {
		q.done <- DownloadResult{Job: q.job, Error: ErrPoolStopped}
	}

	wp.logger.Info("Worker pool stopped")
}

// TrySubmit queues job without blocking. It returns false when the queue is
// full or the pool is stopped. The returned channel receives exactly one
// result. ctx bounds the job's run; a job whose ctx ends while queued is
// skipped.
func (wp *WorkerPool) TrySubmit(ctx context.Context, job DownloadJob) (<-chan DownloadResult, bool) {
	if job.Run == nil {
		return nil, false
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.stopped {
		return nil, false
	}

	q := queuedJob{ctx: ctx, job: job, done: make(chan DownloadResult, 1)}
	select {
	case wp.jobQueue <- q:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"job_id": job.ID,
			"url":    job.URL,
		})
		return q.done, true
	default:
		wp.logger.WarnWithFields("Worker pool queue full", map[string]interface{}{
			"job_id":     job.ID,
			"queue_size": cap(wp.jobQueue),
		})
		return nil, false
	}
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.DebugWithFields("Worker started", map[string]interface{}{
		"worker_id": id,
	})

	for q := range wp.jobQueue {
		q.done <- wp.processJob(q, id)
	}

	wp.logger.DebugWithFields("Worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob runs a single download job
func (wp *WorkerPool) processJob(q queuedJob, workerID int) (result DownloadResult) {
	start := time.Now()
	result = DownloadResult{Job: q.job}

	ctx := q.ctx
	if ctx == nil {
		ctx = wp.ctx
	}
	if err := ctx.Err(); err != nil {
		result.Error = err
		wp.failed.Add(1)
		wp.logger.DebugWithFields("Skipping job - caller went away", map[string]interface{}{
			"worker_id": workerID,
			"job_id":    q.job.ID,
		})
		return result
	}

	wp.active.Add(1)
	defer wp.active.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Errorf("download job panicked: %v", r)
			result.Duration = time.Since(start)
			wp.failed.Add(1)
			wp.logger.ErrorWithFields("Worker recovered from panic", map[string]interface{}{
				"worker_id": workerID,
				"job_id":    q.job.ID,
				"panic":     fmt.Sprint(r),
			})
		}
	}()

	wp.logger.DebugWithFields("Worker processing job", map[string]interface{}{
		"worker_id": workerID,
		"job_id":    q.job.ID,
		"url":       q.job.URL,
	})

	err := q.job.Run(ctx)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		wp.failed.Add(1)
		wp.logger.DebugWithFields("Worker job failed", map[string]interface{}{
			"worker_id": workerID,
			"job_id":    q.job.ID,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	result.Success = true
	wp.completed.Add(1)
	wp.logger.DebugWithFields("Worker completed job successfully", map[string]interface{}{
		"worker_id": workerID,
		"job_id":    q.job.ID,
		"duration":  result.Duration,
	})
	return result
}

// Stats is a snapshot of the pool
type Stats struct {
	Workers   int   `json:"workers"`
	Active    int   `json:"active"`
	Queued    int   `json:"queued"`
	QueueSize int   `json:"queue_size"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Stats returns current counters
func (wp *WorkerPool) Stats() Stats {
	return Stats{
		Workers:   wp.numWorkers,
		Active:    int(wp.active.Load()),
		Queued:    len(wp.jobQueue),
		QueueSize: cap(wp.jobQueue),
		Completed: wp.completed.Load(),
		Failed:    wp.failed.Load(),
	}
}

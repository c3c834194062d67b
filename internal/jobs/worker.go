package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ahamhfc/aham-cms-api/pkg/logger"
)

// ErrQueueFull is returned by Enqueue when no slot is free.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned by Enqueue after Shutdown.
var ErrStopped = errors.New("worker stopped")

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs queued and scheduled maintenance jobs on a fixed pool.
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan namedJob
	workers int
	stats   WorkerStats
	statsMu sync.RWMutex
}

type namedJob struct {
	name string
	run  Job
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	Workers       int       `json:"workers"`
	ActiveJobs    int       `json:"active_jobs"`
	CompletedJobs int64     `json:"completed_jobs"`
	FailedJobs    int64     `json:"failed_jobs"`
	QueueLength   int       `json:"queue_length"`
	LastRunAt     time.Time `json:"last_run_at"`
	LastJob       string    `json:"last_job"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers, queueSize int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan namedJob, queueSize),
		workers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}
	return w
}

// Enqueue hands a job to the pool without blocking the caller.
func (w *Worker) Enqueue(name string, job Job) error {
	if w.ctx.Err() != nil {
		return ErrStopped
	}
	select {
	case w.queue <- namedJob{name: name, run: job}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.queue:
			w.run(job, "worker", workerID)
		}
	}
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, false)
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals.
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(name, interval, job, true)
}

func (w *Worker) schedule(name string, interval time.Duration, job Job, immediate bool) {
	if interval <= 0 {
		logger.Warn("Scheduled job disabled", "job", name, "interval", interval.String())
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		nj := namedJob{name: name, run: job}
		if immediate {
			w.run(nj, "scheduler", 0)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(nj, "scheduler", 0)
			}
		}
	}()
}

// run executes one job, recovering panics so a bad job cannot take the pool down.
func (w *Worker) run(job namedJob, source string, workerID int) {
	w.trackJobStart()
	start := time.Now()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = job.run(w.ctx)
	}()

	w.trackJobEnd(job.name, err)
	if err != nil {
		logger.Error("Background job failed",
			"job", job.name, "source", source, "worker", workerID, "error", err)
		return
	}
	logger.Debug("Background job completed",
		"job", job.name, "source", source, "worker", workerID, "duration", time.Since(start).String())
}

// Shutdown stops scheduling, lets running jobs observe cancellation and waits for them.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.Workers = w.workers
	stats.QueueLength = len(w.queue)
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// trackJobEnd counts every finished job as completed; failures are also counted in FailedJobs.
func (w *Worker) trackJobEnd(name string, err error) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	w.stats.LastRunAt = time.Now().UTC()
	w.stats.LastJob = name
	w.stats.LastError = ""
	if err != nil {
		w.stats.FailedJobs++
		w.stats.LastError = err.Error()
	}
}

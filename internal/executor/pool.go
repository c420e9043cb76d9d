package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task represents a unit of work to be executed by the worker pool
type Task struct {
	// Name identifies the task in results and logs (a location name for benchmark runs)
	Name string

	// Execute is the function to run for this task
	Execute func(ctx context.Context) error
}

// Result represents the outcome of executing a task
type Result struct {
	// Name identifies which task this result is from
	Name string

	// Error contains any error that occurred during execution (nil if successful)
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool runs submitted tasks on a fixed number of worker goroutines.
// A pool is single-use per batch: submit, Close, then Drain.
type Pool struct {
	// workers is the maximum number of tasks executing at once
	workers int

	// tasks is the queue of tasks to execute
	tasks []Task

	// mu protects the tasks slice
	mu sync.Mutex

	logger *slog.Logger

	// closed rejects further submissions
	closed atomic.Bool

	// running indicates if the pool is currently executing
	running atomic.Bool

	// completed and total track progress of the current execution
	completed atomic.Int32
	total     atomic.Int32
}

// NewPool creates a new worker pool with the specified number of workers
// workers must be > 0, otherwise it defaults to 1
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		workers: workers,
		tasks:   make([]Task, 0),
		logger:  logger,
	}
}

// Submit adds a task to the pool's queue
// Returns an error if the pool is closed or already running
func (p *Pool) Submit(task Task) error {
	if p.closed.Load() {
		return fmt.Errorf("pool is closed, cannot submit new tasks")
	}

	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	if task.Name == "" {
		return fmt.Errorf("task must have a name")
	}

	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "task", task.Name, "total_tasks", len(p.tasks))

	return nil
}

// Close signals that no more tasks will be submitted
func (p *Pool) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.logger.Debug("pool closed for submissions", "tasks", p.TaskCount())
	}
}

// ExecuteWithProgress runs all submitted tasks and returns their results in
// submission order. A nil progressFn is allowed. The progressFn callback is called after each task completes with (completed, total) counts
func (p *Pool) ExecuteWithProgress(ctx context.Context, progressFn func(completed, total int)) []Result {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	taskCount := len(p.tasks)
	tasksCopy := make([]Task, taskCount)
	copy(tasksCopy, p.tasks)
	p.mu.Unlock()

	p.completed.Store(0)
	p.total.Store(int32(taskCount))

	if taskCount == 0 {
		p.logger.Debug("no tasks to execute")
		return []Result{}
	}

	p.logger.Debug("starting task execution",
		"workers", p.workers,
		"tasks", taskCount)

	startTime := time.Now()

	// Buffered to task count so neither queuing nor result delivery blocks
	taskChan := make(chan taskWithIndex, taskCount)
	resultChan := make(chan resultWithIndex, taskCount)

	var wg sync.WaitGroup
	workerCount := p.workers
	if workerCount > taskCount {
		workerCount = taskCount
	}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, i, taskChan, resultChan, &wg, taskCount, progressFn)
	}

	for i, task := range tasksCopy {
		taskChan <- taskWithIndex{task: task, index: i}
	}
	close(taskChan)

	wg.Wait()
	close(resultChan)

	results := make([]Result, taskCount)
	done := make([]bool, taskCount)
	for res := range resultChan {
		results[res.index] = res.result
		done[res.index] = true
	}

	// Tasks a worker never picked up because the context ended first
	for i := range results {
		if !done[i] {
			results[i] = Result{
				Name:  tasksCopy[i].Name,
				Error: fmt.Errorf("task not executed: %w", ctx.Err()),
			}
		}
	}

	successCount := CountSuccessful(results)
	p.logger.Debug("task execution completed",
		"total", taskCount,
		"successful", successCount,
		"failed", taskCount-successCount,
		"duration", time.Since(startTime))

	return results
}

// Drain executes all tasks and blocks until every one has finished or the
// ceiling elapses. On timeout the execution context is cancelled and a
// *DrainTimeoutError is returned without waiting for stragglers. A
// non-positive ceiling waits without bound.
func (p *Pool) Drain(ctx context.Context, ceiling time.Duration, progressFn func(completed, total int)) ([]Result, error) {
	if ceiling <= 0 {
		return p.ExecuteWithProgress(ctx, progressFn), nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan []Result, 1)
	go func() {
		done <- p.ExecuteWithProgress(runCtx, progressFn)
	}()

	timer := time.NewTimer(ceiling)
	defer timer.Stop()

	select {
	case results := <-done:
		return results, nil
	case <-timer.C:
		cancel()
		err := &DrainTimeoutError{
			Ceiling:   ceiling,
			Completed: int(p.completed.Load()),
			Total:     int(p.total.Load()),
		}
		p.logger.Error("pool did not drain before ceiling",
			"ceiling", ceiling,
			"completed", err.Completed,
			"total", err.Total)
		return nil, err
	}
}

// worker is the worker goroutine that processes tasks from the task channel
func (p *Pool) worker(
	ctx context.Context,
	workerID int,
	taskChan <-chan taskWithIndex,
	resultChan chan<- resultWithIndex,
	wg *sync.WaitGroup,
	total int,
	progressFn func(completed, total int),
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
			return

		case item, ok := <-taskChan:
			if !ok {
				return
			}

			result := Run(ctx, p.logger, item.task)
			resultChan <- resultWithIndex{result: result, index: item.index}

			completedCount := p.completed.Add(1)
			p.logger.Debug("task completed",
				"worker_id", workerID,
				"task", item.task.Name,
				"success", result.Error == nil,
				"duration", result.Duration,
				"progress", fmt.Sprintf("%d/%d", completedCount, total))

			if progressFn != nil {
				progressFn(int(completedCount), total)
			}
		}
	}
}

// Run executes a single task on the calling goroutine. A panic inside the
// task is recovered and reported as the task's error.
func Run(ctx context.Context, logger *slog.Logger, task Task) (result Result) {
	if logger == nil {
		logger = slog.Default()
	}

	startTime := time.Now()
	result.Name = task.Name

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("task %q panicked: %v", task.Name, r)
			result.Duration = time.Since(startTime)
			logger.Error("task panicked", "task", task.Name, "panic", r)
		}
	}()

	select {
	case <-ctx.Done():
		result.Error = fmt.Errorf("task cancelled before execution: %w", ctx.Err())
		return result
	default:
	}

	err := task.Execute(ctx)
	result.Error = err
	result.Duration = time.Since(startTime)

	if err != nil {
		logger.Debug("task failed", "task", task.Name, "error", err, "duration", result.Duration)
	}

	return result
}

// TaskCount returns the number of tasks currently queued
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// taskWithIndex pairs a task with its original index for result ordering
type taskWithIndex struct {
	task  Task
	index int
}

// resultWithIndex pairs a result with its original task index
type resultWithIndex struct {
	result Result
	index  int
}

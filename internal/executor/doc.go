// Package executor provides the bounded worker pool that runs per-location
// work during a benchmark trial.
//
// A pool is used once per batch. Tasks are submitted, the pool is closed to
// further submissions, and Drain blocks until every task has finished or the
// drain ceiling elapses:
//
//	pool := executor.NewPool(9, logger)
//
//	for _, loc := range locations {
//	    loc := loc
//	    pool.Submit(executor.Task{
//	        Name: loc.Name,
//	        Execute: func(ctx context.Context) error {
//	            return pipeline.ProcessOne(ctx, loc)
//	        },
//	    })
//	}
//	pool.Close()
//
//	results, err := pool.Drain(ctx, time.Hour, nil)
//
// # Drain Ceiling
//
// Drain does not trust tasks to honor their context. When the ceiling
// elapses it cancels the execution context and returns a
// *DrainTimeoutError immediately, leaving stragglers to finish in the
// background. A non-positive ceiling waits without bound.
//
// # Failure Isolation
//
// A task error or panic is recorded in that task's Result and never stops
// the others. Run applies the same recovery to a single task on the calling
// goroutine, which is how sequential execution shares the pool's semantics.
//
// Results are returned in submission order. Summarize and the Filter helpers
// aggregate them for logging.
package executor

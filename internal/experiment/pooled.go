package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/aryankumar/tempbench/internal/executor"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/util"
)

// Pooled processes locations on a fixed number of workers, one task per
// location, and returns only after the pool has drained
type Pooled struct {
	*pipeline
	size         int
	drainTimeout time.Duration
}

var _ harness.Runner = (*Pooled)(nil)

// NewPooled creates a pooled runner with size workers
func NewPooled(cfg Config, size int) (*Pooled, error) {
	if size <= 0 {
		return nil, util.NewValidationError("poolSize", size, "must be positive")
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}

	drain := cfg.DrainTimeout
	if drain == 0 {
		drain = DefaultDrainTimeout
	}

	return &Pooled{pipeline: p, size: size, drainTimeout: drain}, nil
}

// Name returns "pool-N"
func (p *Pooled) Name() string {
	return harness.PoolName(p.size)
}

// Size returns the number of workers
func (p *Pooled) Size() int {
	return p.size
}

// Run submits every location, closes the pool and waits for it to drain.
// Missing the drain ceiling fails the run with *executor.DrainTimeoutError.
func (p *Pooled) Run(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	gen := p.store.Generation()

	pool := executor.NewPool(p.size, p.logger)
	for _, loc := range p.locations {
		if err := pool.Submit(executor.Task{Name: loc.Name, Execute: p.task(loc, gen)}); err != nil {
			return 0, fmt.Errorf("failed to submit %s: %w", loc.Name, err)
		}
	}
	pool.Close()

	results, err := pool.Drain(ctx, p.drainTimeout, func(completed, total int) {
		p.logger.Debug("pool progress", "runner", p.Name(), "completed", completed, "total", total)
	})
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}

	p.logBatch(p.Name(), results, elapsed)
	return elapsed, nil
}

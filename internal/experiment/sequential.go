package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/aryankumar/tempbench/internal/executor"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/util"
)

// Sequential processes locations one at a time on the calling goroutine
type Sequential struct {
	*pipeline
}

var _ harness.Runner = (*Sequential)(nil)

// NewSequential creates a sequential runner
func NewSequential(cfg Config) (*Sequential, error) {
	p, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}
	return &Sequential{pipeline: p}, nil
}

// Name returns "sequential"
func (s *Sequential) Name() string {
	return harness.SequentialName
}

// Run processes every location in catalog order and returns the elapsed
// wall time. Location failures and panics are isolated per location.
func (s *Sequential) Run(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	gen := s.store.Generation()

	results := make([]executor.Result, 0, len(s.locations))
	for _, loc := range s.locations {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", util.ErrCancelled, err)
		}

		results = append(results, executor.Run(ctx, s.logger, executor.Task{Name: loc.Name, Execute: s.task(loc, gen)}))
	}

	elapsed := time.Since(start)
	s.logBatch(s.Name(), results, elapsed)
	return elapsed, nil
}

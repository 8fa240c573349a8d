package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result pairs a job argument with the outcome of running the job against it
type Result[A any, R any] struct {
	Arg   A
	Value R
	Err   error
}

// ThrottledWorker runs a job over a set of arguments with bounded parallelism.
// Jobs never cancel each other, every argument gets a result.
type ThrottledWorker[A any, R any] struct {
	limit       int
	jobCallback func(ctx context.Context, arg A) (R, error)
}

func NewThrottledWorker[A any, R any](limit int, jobCallback func(ctx context.Context, arg A) (R, error)) ThrottledWorker[A, R] {
	if limit < 1 {
		limit = 1
	}
	return ThrottledWorker[A, R]{limit: limit, jobCallback: jobCallback}
}

// Run returns results in the same order as jobArgs
func (w ThrottledWorker[A, R]) Run(ctx context.Context, jobArgs []A) []Result[A, R] {
	results := make([]Result[A, R], len(jobArgs))

	var g errgroup.Group
	g.SetLimit(w.limit)

	for i, arg := range jobArgs {
		i, arg := i, arg
		g.Go(func() error {
			value, err := w.jobCallback(ctx, arg)
			results[i] = Result[A, R]{Arg: arg, Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

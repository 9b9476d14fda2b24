// Package gather runs independent tasks concurrently and joins them.
// The first failure is returned once every task has finished; a failing
// task does not cancel its siblings, whose results are discarded.
package gather

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work for Run
type Task func(ctx context.Context) error

// Run executes tasks with at most limit running at once (limit <= 0 means unbounded)
func Run(ctx context.Context, limit int, tasks ...Task) error {
	g := newGroup(limit)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(ctx)
		})
	}
	return g.Wait()
}

// All calls fn for every index in [0, n) and returns the results in index
// order, regardless of the order in which the calls complete.
func All[T any](ctx context.Context, limit, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	g := newGroup(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newGroup(limit int) *errgroup.Group {
	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}
	return g
}

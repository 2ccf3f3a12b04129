package conform

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner lets batch generation schedule work with any concurrency model.
// Invocations share no mutable state, so they may run in parallel freely.
type Runner interface {
	Go(fn func() error) // schedule
	Wait() error        // join / propagate first err
}

// DefaultRunner returns the default implementation backed by errgroup.Group.
func DefaultRunner(ctx context.Context) Runner {
	return newErrGroupRunner(ctx, runtime.NumCPU())
}

// NewLimitedRunner creates a runner with bounded concurrency, useful when
// the completion provider enforces per-key rate limits.
func NewLimitedRunner(ctx context.Context, maxConcurrency int) Runner {
	return newErrGroupRunner(ctx, maxConcurrency)
}

type errGroupRunner struct {
	ctx context.Context // derived ctx shared by all tasks
	eg  *errgroup.Group
	sem chan struct{} // concurrency gate
}

func newErrGroupRunner(parent context.Context, maxConcurrency int) *errGroupRunner {
	eg, ctx := errgroup.WithContext(parent)
	return &errGroupRunner{
		ctx: ctx,
		eg:  eg,
		sem: make(chan struct{}, maxConcurrency),
	}
}

func (r *errGroupRunner) Go(fn func() error) {
	r.eg.Go(func() error {
		r.sem <- struct{}{}        // acquire
		defer func() { <-r.sem }() // release
		return fn()
	})
}

func (r *errGroupRunner) Wait() error { return r.eg.Wait() }

// GenerateBatch runs one independent Generate invocation per input,
// concurrently. The result is ordered parallel to inputs; an input whose
// attempts were exhausted yields a nil Item at its index. The first
// transport error cancels the whole batch.
func (c *Coercer) GenerateBatch(ctx context.Context, system string, inputs []string, f Format, opts ...Option) ([]Item, error) {
	o := c.opts
	for _, fn := range opts {
		fn(&o)
	}

	r := o.Runner
	if r == nil {
		r = DefaultRunner(ctx)
	}

	// Use the derived ctx if we're on the default runner; otherwise fall back.
	runCtx := ctx
	if d, ok := r.(*errGroupRunner); ok {
		runCtx = d.ctx
	}

	c.log.Debug("starting batch", "inputs", len(inputs), "model", o.Model)

	items := make([]Item, len(inputs))
	for i, input := range inputs {
		i, input := i, input // loop capture
		r.Go(func() error {
			item, err := c.Generate(runCtx, system, input, f, opts...)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			items[i] = item
			return nil
		})
	}
	if err := r.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

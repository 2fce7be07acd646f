// Package pipeline executes the build's units of work. A unit is a plain
// [Task]; the [Pipeline] runs a batch of them either sequentially or on a
// bounded worker pool, stopping the whole batch at the first failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

// Task defines the basic function that the pipeline executes.
// Additional configuration and tweaks can be done by using closures which
// return Tasks.
type Task func(ctx context.Context) error

// Pipeline runs tasks with consistent output where status and timing info
// are clearly visible. Units are independent, so the pipeline can run them
// concurrently; the first failing unit cancels the rest.
type Pipeline struct {
	jobs int
}

// New constructs a pipeline.
func New(opts ...Option) *Pipeline {
	p := Pipeline{jobs: 1}

	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// Execute a list of tasks inside the pipeline.
// With one job the tasks run sequentially in order; with more jobs they run
// on an errgroup bounded to that many workers. Either way the first error
// aborts the batch: remaining sequential tasks are not started, and
// in-flight concurrent siblings observe a cancelled context.
func (p *Pipeline) Execute(ctx context.Context, tasks ...Task) error {
	start := time.Now()

	fmt.Printf("\n")

	err := p.run(ctx, tasks)

	elapsed := time.Since(start).Round(time.Millisecond)
	color.New(color.FgHiBlack).Printf("------------------------\n\n")

	if err != nil {
		color.Red(" ✘ finished with errors after %s", elapsed)
		color.Red("   • %s", err.Error())
		fmt.Printf("\n")
		return err
	}

	color.Green(" ✔ all good after %s\n\n", elapsed)
	return nil
}

func (p *Pipeline) run(ctx context.Context, tasks []Task) error {
	if p.jobs <= 1 {
		for i := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tasks[i](ctx); err != nil {
				return err
			}
		}
		return nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.jobs)

	for i := range tasks {
		task := tasks[i]
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx)
		})
	}

	return group.Wait()
}

// Option allows customizing the pipeline behavior.
type Option func(p *Pipeline)

// WithJobs sets the number of tasks allowed to run at the same time.
// Values below one are treated as sequential execution.
func WithJobs(jobs int) Option {
	return func(p *Pipeline) {
		if jobs < 1 {
			jobs = 1
		}
		p.jobs = jobs
	}
}

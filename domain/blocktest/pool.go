package blocktest

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Result is the outcome of a single fixture
type Result struct {
	Fixture  *Fixture
	Skipped  bool
	Err      error
	Duration time.Duration
}

// Passed returns whether the fixture ran and passed
func (r *Result) Passed() bool {
	return !r.Skipped && r.Err == nil
}

// Summary counts results by outcome
type Summary struct {
	Passed  int
	Failed  int
	Skipped int
}

// Summarize counts results by outcome
func Summarize(results []*Result) Summary {
	var summary Summary
	for _, result := range results {
		switch {
		case result.Skipped:
			summary.Skipped++
		case result.Err != nil:
			summary.Failed++
		default:
			summary.Passed++
		}
	}
	return summary
}

// RunAll runs fixtures over a pool of workers, each fixture on its own
// chain, and returns their results in the order of fixtures. Fixtures that
// haven't started once ctx is done are reported as failed with ctx's error.
// A non-positive workers count selects one worker per CPU.
func (r *Runner) RunAll(ctx context.Context, fixtures []*Fixture, workers int) []*Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Result, len(fixtures))
	indexes := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		spawn(func() {
			defer wg.Done()
			for index := range indexes {
				results[index] = r.runOne(ctx, fixtures[index])
			}
		})
	}

	for index := range fixtures {
		indexes <- index
	}
	close(indexes)
	wg.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, fixture *Fixture) *Result {
	if fixture.SkipReason != "" {
		log.Debugf("Skipping %s: %s", fixture.ID(), fixture.SkipReason)
		return &Result{Fixture: fixture, Skipped: true}
	}
	if ctx.Err() != nil {
		return &Result{Fixture: fixture, Err: ctx.Err()}
	}

	start := time.Now()
	err := r.Run(ctx, fixture)
	result := &Result{Fixture: fixture, Err: err, Duration: time.Since(start)}
	if err != nil {
		log.Errorf("%s failed: %+v", fixture.ID(), err)
	} else {
		log.Debugf("%s passed in %s", fixture.ID(), result.Duration)
	}
	return result
}

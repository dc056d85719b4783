// Package testutil holds helpers shared by service tests.
package testutil

import (
	"sync"
	"sync/atomic"

	dErrors "carpeta/pkg/domain-errors"
)

// ConcurrentResult counts how racing calls ended. Conflicts and NotFounds
// are domain outcomes; Errors is everything else.
type ConcurrentResult struct {
	Successes int32
	Conflicts int32
	NotFounds int32
	Errors    int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Conflicts + r.NotFounds + r.Errors
}

// RunConcurrent releases n goroutines at once, each calling fn with its
// index, and waits for all of them.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var successes, conflicts, notFounds, errs atomic.Int32
	outcome := func(err error) *atomic.Int32 {
		switch {
		case err == nil:
			return &successes
		case dErrors.HasCode(err, dErrors.CodeConflict):
			return &conflicts
		case dErrors.HasCode(err, dErrors.CodeNotFound):
			return &notFounds
		default:
			return &errs
		}
	}

	var ready, done sync.WaitGroup
	start := make(chan struct{})
	ready.Add(n)
	for i := range n {
		done.Go(func() {
			ready.Done()
			<-start
			outcome(fn(i)).Add(1)
		})
	}
	ready.Wait()
	close(start)
	done.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Conflicts: conflicts.Load(),
		NotFounds: notFounds.Load(),
		Errors:    errs.Load(),
	}
}

package traversal

import (
	"context"
	"errors"
	"sync"
)

// TaskError accumulates the errors produced by a batch of traversal calls.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BatchRunner executes independent traversal calls on a bounded worker pool.
// Every call keeps its own frontier and visited state, so concurrent calls
// against one backend are safe; consistency between them is the backend's
// snapshot discipline.
type BatchRunner struct {
	workers int
}

// NewBatchRunner creates a runner with the provided concurrency.
func NewBatchRunner(workers int) *BatchRunner {
	if workers <= 0 {
		workers = 4
	}
	return &BatchRunner{workers: workers}
}

// Run invokes fn for every index in [0, total) across the worker pool.
// Context cancellation aborts scheduling and is returned as-is; all other
// failures are accumulated into a TaskError.
func (b *BatchRunner) Run(ctx context.Context, total int, fn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := fn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

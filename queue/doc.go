// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package queue serializes mutations through a single worker goroutine.

	q := queue.New(queue.Config{PromRegistry: reg})
	defer q.Close()

	err := q.Do(ctx, func(ctx context.Context) error {
		// check-then-set without interference from other tasks
		return nil
	})

Tasks run strictly in submission order and one at a time. Submission never
blocks; Do waits for the result. A task that returns an error or panics only
fails its own caller.

A caller whose context ends while waiting gets ctx.Err(), but the task is not
cancelled: it still runs with a context detached from the caller's deadline.
Close rejects new tasks with ErrClosed and returns after everything already
queued has run.
*/
package queue

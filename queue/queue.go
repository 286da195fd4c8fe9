// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrClosed = errors.New("queue closed")

// Task is a unit of serialized work. The context carries the submitter's
// values but is never cancelled once the task has been accepted.
type Task func(ctx context.Context) error

type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

type job struct {
	ctx    context.Context
	run    Task
	result chan error
}

// Queue is an unbounded FIFO drained by exactly one worker goroutine, so
// tasks never interleave with each other.
type Queue struct {
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []*job
	closed  bool
	done    chan struct{}

	pendingGauge prometheus.Gauge
	failedTotal  prometheus.Counter
}

// New creates a queue and starts its worker. Close must be called to stop it.
func New(cfg Config) *Queue {
	q := &Queue{
		logger: cfg.Logger,
		done:   make(chan struct{}),
	}
	if q.logger == nil {
		q.logger = slog.Default()
	}
	q.cond = sync.NewCond(&q.mu)

	// A nil registry creates the metrics without registering them
	factory := promauto.With(cfg.PromRegistry)
	q.pendingGauge = factory.NewGauge(prometheus.GaugeOpts{
		Name: "election_queue_pending",
		Help: "Number of vote mutations waiting for the worker",
	})
	q.failedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "election_queue_failed_tasks_total",
		Help: "Total number of queued tasks that returned an error or panicked",
	})

	go q.worker()
	return q
}

// Submit enqueues task without blocking and returns a channel that receives
// the task's result once it has run.
func (q *Queue) Submit(ctx context.Context, task Task) <-chan error {
	result := make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		result <- ErrClosed
		return result
	}
	q.pending = append(q.pending, &job{
		ctx:    context.WithoutCancel(ctx),
		run:    task,
		result: result,
	})
	q.updateGauge()
	q.mu.Unlock()

	q.cond.Signal()
	return result
}

// Do submits task and waits for it to finish. If ctx ends first, Do returns
// ctx.Err() and the task still runs: the outcome is unknown to the caller.
func (q *Queue) Do(ctx context.Context, task Task) error {
	select {
	case err := <-q.Submit(ctx, task):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of tasks waiting to run
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting tasks, waits for the worker to drain everything
// already queued, and then stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
	<-q.done
}

func (q *Queue) worker() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		j := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.updateGauge()
		q.mu.Unlock()

		j.result <- q.run(j)
	}
}

// run executes a single task, turning a panic into an error so one bad task
// cannot stop the worker.
func (q *Queue) run(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queued task panicked: %v", r)
		}
		if err != nil {
			q.logger.Error("queued task failed", "error", err)
			q.failedTotal.Inc()
		}
	}()

	return j.run(j.ctx)
}

// updateGauge must be called with q.mu held
func (q *Queue) updateGauge() {
	q.pendingGauge.Set(float64(len(q.pending)))
}

// Package worker applies queued interactions to user models.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Recorder applies one interaction to the user's model.
type Recorder interface {
	Record(ctx context.Context, in model.Interaction)
}

// Queue defines how workers receive interactions.
type Queue interface {
	Dequeue(ctx context.Context, partition int) <-chan model.Interaction
	Partitions() int
}

// InMemoryWorker drains one queue partition.
type InMemoryWorker struct {
	queue     Queue
	partition int
	recorder  Recorder
	name      string
	processed atomic.Int64

	done   chan struct{}
	logger logger.Logger
}

// NewInMemoryWorker creates a worker for one partition.
func NewInMemoryWorker(queue Queue, partition int, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		partition: partition,
		recorder:  recorder,
		name:      "worker",
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes interactions until the partition is closed and drained or
// ctx is canceled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ch := w.queue.Dequeue(ctx, w.partition)
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			if err := w.process(ctx, in); err != nil {
				w.logger.Error(ctx, "error applying interaction",
					logger.String("worker", w.name),
					logger.String("interaction_id", in.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Processed returns the number of interactions this worker applied.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

func (w *InMemoryWorker) process(ctx context.Context, in model.Interaction) (err error) { //nolint:gocritic // hugeParam
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "panic")
			err = fmt.Errorf("recovered: %v", r)
		}
	}()

	w.recorder.Record(ctx, in)
	w.processed.Add(1)
	metrics.RecordInteraction(string(in.Action))
	w.logger.Debug(ctx, "interaction applied",
		logger.String("user_id", in.UserID),
		logger.String("event_id", in.EventID),
		logger.String("action", string(in.Action)),
	)
	return nil
}

// Pool runs one worker per queue partition.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker for every partition of queue.
func NewPool(queue Queue, recorder Recorder) *Pool {
	p := &Pool{
		workers: make([]*InMemoryWorker, queue.Partitions()),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(queue, i, recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
	p.logger.Info(ctx, "workers started", logger.Int("count", len(p.workers)))
}

// Processed returns the number of interactions applied by all workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

// Package queue buffers submitted interactions until a worker applies them.
//
// The queue is partitioned by user id so that every interaction of a user
// lands on the same partition and is applied in submission order.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/metrics"
)

const (
	defaultQueueCapacity = 10000
	defaultPartitions    = 4
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an interaction without blocking. It returns ErrQueueFull
	// when the user's partition is full and ErrQueueClosed after Close.
	Enqueue(ctx context.Context, in model.Interaction) error

	// Dequeue returns a channel that receives the partition's interactions
	// in order. The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context, partition int) <-chan model.Interaction

	// Partitions returns the number of partitions.
	Partitions() int

	// Len returns the number of queued interactions across partitions.
	Len(ctx context.Context) int

	// Close stops accepting interactions.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

type item struct {
	in model.Interaction
	at time.Time
}

// InMemoryQueue implements Queue using one buffered channel per partition.
type InMemoryQueue struct {
	parts      []chan item
	capacity   int
	partitions int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		partitions: defaultPartitions,
	}
	for _, opt := range opts {
		opt(q)
	}

	per := max(1, (q.capacity+q.partitions-1)/q.partitions)
	q.parts = make([]chan item, q.partitions)
	for i := range q.parts {
		q.parts[i] = make(chan item, per)
	}

	metrics.UpdateQueueCapacity(per * q.partitions)
	metrics.UpdateQueuePartitions(q.partitions)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Partition returns the partition index for userID.
func (q *InMemoryQueue) Partition(userID string) int {
	return int(xxhash.Sum64String(userID) % uint64(q.partitions)) //nolint:gosec // bounded by partitions
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, in model.Interaction) error { //nolint:gocritic // hugeParam
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	p := q.Partition(in.UserID)
	select {
	case q.parts[p] <- item{in: in, at: time.Now()}:
		metrics.RecordQueueEnqueue()
		q.updateSizeMetrics()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return fmt.Errorf("%w: partition %d", ErrQueueFull, p)
	}
}

// Dequeue implements Queue. An out-of-range partition yields a closed channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context, partition int) <-chan model.Interaction {
	out := make(chan model.Interaction)
	if partition < 0 || partition >= len(q.parts) {
		close(out)
		return out
	}
	src := q.parts[partition]
	go func() {
		defer close(out)
		for it := range src {
			select {
			case out <- it.in:
				metrics.RecordQueueDequeue()
				metrics.RecordQueueProcessingLatency(float64(time.Since(it.at).Microseconds()) / 1000)
				q.updateSizeMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Partitions implements Queue.
func (q *InMemoryQueue) Partitions() int { return q.partitions }

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return q.updateSizeMetrics()
}

func (q *InMemoryQueue) updateSizeMetrics() int {
	size, capacity := 0, 0
	for _, p := range q.parts {
		size += len(p)
		capacity += cap(p)
	}
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(capacity))
	return size
}

// Close implements Queue. Queued interactions stay available to Dequeue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	for _, p := range q.parts {
		close(p)
	}
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultCapacity is the number of frames the queue holds before producers
// block.
const DefaultCapacity = 1000

var (
	// ErrQueueEmpty is returned when a pop times out with nothing queued
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrQueueClosed is returned when operations are attempted on a closed queue
	ErrQueueClosed = errors.New("queue is closed")
)

// Frame is one fixed-size slice of PCM bytes. Padding counts the trailing
// zero bytes added to fill the last frame of a chunk.
type Frame struct {
	Data    []byte
	Padding int
}

// Len returns the frame size in bytes.
func (f Frame) Len() int { return len(f.Data) }

// Payload returns the number of synthesized (non-padding) bytes.
func (f Frame) Payload() int { return len(f.Data) - f.Padding }

// Stats tracks queue throughput.
type Stats struct {
	TotalPushed   int64
	TotalPopped   int64
	TotalRequeued int64
	TotalCleared  int64
	BytesPushed   int64
	BytesPopped   int64
	CurrentSize   int
	PeakSize      int
	LastPush      time.Time
	LastPop       time.Time
}

// AudioQueue is a bounded FIFO of frames, safe for concurrent use.
type AudioQueue struct {
	items    []Frame
	capacity int

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	closed bool
	stats  Stats
}

// NewAudioQueue creates a queue holding at most capacity frames. A
// non-positive capacity selects DefaultCapacity.
func NewAudioQueue(capacity int) *AudioQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &AudioQueue{
		items:    make([]Frame, 0, capacity),
		capacity: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends a frame, blocking while the queue is full. It returns
// ErrQueueClosed if the queue is closed and ctx.Err() if ctx ends first.
func (q *AudioQueue) Push(ctx context.Context, f Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if len(q.items) >= q.capacity {
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notFull.Broadcast()
			q.mu.Unlock()
		})
		defer stop()

		for len(q.items) >= q.capacity && !q.closed && ctx.Err() == nil {
			q.notFull.Wait()
		}
		if q.closed {
			return ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	q.items = append(q.items, f)
	q.stats.TotalPushed++
	q.stats.BytesPushed += int64(len(f.Data))
	q.stats.LastPush = time.Now()
	q.updateSize()

	q.notEmpty.Signal()
	return nil
}

// Requeue puts back a frame that was already popped. It never blocks and
// may briefly exceed capacity by the frames being returned. With front
// set the frame goes to the head of the queue, otherwise to the tail.
func (q *AudioQueue) Requeue(f Frame, front bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if front {
		q.items = append(q.items, Frame{})
		copy(q.items[1:], q.items)
		q.items[0] = f
	} else {
		q.items = append(q.items, f)
	}
	q.stats.TotalRequeued++
	q.updateSize()

	q.notEmpty.Signal()
	return nil
}

// Pop removes the oldest frame, waiting up to timeout for one to arrive.
// It returns ErrQueueEmpty when the wait expires and ErrQueueClosed once
// the queue is closed and drained.
func (q *AudioQueue) Pop(timeout time.Duration) (Frame, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 && !q.closed && timeout > 0 {
		expired := false
		timer := time.AfterFunc(timeout, func() {
			q.mu.Lock()
			expired = true
			q.mu.Unlock()
			q.notEmpty.Broadcast()
		})
		defer timer.Stop()

		for len(q.items) == 0 && !q.closed && !expired {
			q.notEmpty.Wait()
		}
	}

	if len(q.items) == 0 {
		if q.closed {
			return Frame{}, ErrQueueClosed
		}
		return Frame{}, ErrQueueEmpty
	}

	f := q.items[0]
	q.items[0] = Frame{}
	q.items = q.items[1:]

	q.stats.TotalPopped++
	q.stats.BytesPopped += int64(len(f.Data))
	q.stats.LastPop = time.Now()
	q.updateSize()

	q.notFull.Signal()
	return f, nil
}

// Len returns the number of queued frames.
func (q *AudioQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *AudioQueue) Cap() int {
	return q.capacity
}

// Clear drops every queued frame and returns how many were dropped.
func (q *AudioQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	q.items = make([]Frame, 0, q.capacity)
	q.stats.TotalCleared += int64(n)
	q.updateSize()

	q.notFull.Broadcast()
	return n
}

// Stats returns a snapshot of queue statistics.
func (q *AudioQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Closed reports whether Close has been called.
func (q *AudioQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close wakes all waiters. Pending frames stay poppable; pushes fail.
func (q *AudioQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	return nil
}

// updateSize refreshes size statistics. Callers hold q.mu.
func (q *AudioQueue) updateSize() {
	q.stats.CurrentSize = len(q.items)
	if q.stats.CurrentSize > q.stats.PeakSize {
		q.stats.PeakSize = q.stats.CurrentSize
	}
}

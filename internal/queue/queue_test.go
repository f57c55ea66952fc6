package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func frame(b byte, n int) Frame {
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}
	return Frame{Data: data}
}

func TestAudioQueue_FIFO(t *testing.T) {
	q := NewAudioQueue(10)
	ctx := context.Background()

	for i := byte(0); i < 5; i++ {
		if err := q.Push(ctx, frame(i, 4)); err != nil {
			t.Fatalf("Push(%d) failed: %v", i, err)
		}
	}
	if q.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", q.Len())
	}
	for i := byte(0); i < 5; i++ {
		f, err := q.Pop(time.Second)
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if f.Data[0] != i {
			t.Errorf("Pop returned frame %d, want %d", f.Data[0], i)
		}
	}
}

func TestAudioQueue_DefaultCapacity(t *testing.T) {
	if got := NewAudioQueue(0).Cap(); got != DefaultCapacity {
		t.Errorf("Cap() = %d, want %d", got, DefaultCapacity)
	}
}

func TestAudioQueue_PopTimeout(t *testing.T) {
	q := NewAudioQueue(2)

	start := time.Now()
	_, err := q.Pop(10 * time.Millisecond)
	if !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Pop blocked for %v", elapsed)
	}

	if _, err := q.Pop(0); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("zero-timeout pop: expected ErrQueueEmpty, got %v", err)
	}
}

func TestAudioQueue_PushBlocksWhenFull(t *testing.T) {
	q := NewAudioQueue(1)
	ctx := context.Background()

	if err := q.Push(ctx, frame(1, 1)); err != nil {
		t.Fatal(err)
	}

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(ctx, frame(2, 1))
	}()

	select {
	case err := <-pushed:
		t.Fatalf("Push returned early on full queue: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := q.Pop(time.Second); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-pushed:
		if err != nil {
			t.Fatalf("blocked Push failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after Pop")
	}
}

func TestAudioQueue_PushContextCancel(t *testing.T) {
	q := NewAudioQueue(1)
	_ = q.Push(context.Background(), frame(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- q.Push(ctx, frame(2, 1))
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Push ignored context cancellation")
	}
}

func TestAudioQueue_CloseWakesWaiters(t *testing.T) {
	q := NewAudioQueue(1)
	_ = q.Push(context.Background(), frame(1, 1))

	pushErr := make(chan error, 1)
	go func() {
		pushErr <- q.Push(context.Background(), frame(2, 1))
	}()
	time.Sleep(20 * time.Millisecond)

	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-pushErr:
		if !errors.Is(err, ErrQueueClosed) {
			t.Errorf("expected ErrQueueClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake blocked Push")
	}

	// Pending frames drain before the closed error.
	if _, err := q.Pop(time.Second); err != nil {
		t.Errorf("expected pending frame after close, got %v", err)
	}
	if _, err := q.Pop(time.Second); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
	if err := q.Close(); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("second Close: expected ErrQueueClosed, got %v", err)
	}
}

func TestAudioQueue_Requeue(t *testing.T) {
	tests := []struct {
		name  string
		front bool
		want  []byte
	}{
		{"tail", false, []byte{2, 3, 1}},
		{"front", true, []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewAudioQueue(3)
			ctx := context.Background()
			for i := byte(1); i <= 3; i++ {
				_ = q.Push(ctx, frame(i, 1))
			}

			first, _ := q.Pop(time.Second)
			if err := q.Requeue(first, tt.front); err != nil {
				t.Fatal(err)
			}

			var got []byte
			for q.Len() > 0 {
				f, _ := q.Pop(time.Second)
				got = append(got, f.Data[0])
			}
			if string(got) != string(tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if s := q.Stats(); s.TotalRequeued != 1 {
				t.Errorf("TotalRequeued = %d, want 1", s.TotalRequeued)
			}
		})
	}
}

func TestAudioQueue_RequeueDoesNotBlockWhenFull(t *testing.T) {
	q := NewAudioQueue(1)
	_ = q.Push(context.Background(), frame(1, 1))

	done := make(chan error, 1)
	go func() { done <- q.Requeue(frame(9, 1), false) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Requeue blocked on a full queue")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestAudioQueue_Clear(t *testing.T) {
	q := NewAudioQueue(5)
	for i := 0; i < 4; i++ {
		_ = q.Push(context.Background(), frame(byte(i), 2))
	}
	if n := q.Clear(); n != 4 {
		t.Errorf("Clear() = %d, want 4", n)
	}
	if q.Len() != 0 {
		t.Errorf("Len() after Clear = %d", q.Len())
	}
	s := q.Stats()
	if s.TotalCleared != 4 || s.PeakSize != 4 || s.CurrentSize != 0 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestAudioQueue_NoLossUnderBackpressure(t *testing.T) {
	q := NewAudioQueue(8)
	ctx := context.Background()
	const frames = 500

	var produced, consumed int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < frames; i++ {
			f := frame(byte(i), 16)
			if err := q.Push(ctx, f); err != nil {
				t.Errorf("Push: %v", err)
				return
			}
			produced += int64(f.Len())
		}
		_ = q.Close()
	}()

	for {
		f, err := q.Pop(10 * time.Millisecond)
		if errors.Is(err, ErrQueueClosed) {
			break
		}
		if errors.Is(err, ErrQueueEmpty) {
			continue
		}
		consumed += int64(f.Len())
	}
	wg.Wait()

	if produced != consumed {
		t.Errorf("produced %d bytes, consumed %d", produced, consumed)
	}
	if s := q.Stats(); s.PeakSize > 8 {
		t.Errorf("PeakSize %d exceeded capacity", s.PeakSize)
	}
}

func TestFramePayload(t *testing.T) {
	f := Frame{Data: make([]byte, 10), Padding: 3}
	if f.Len() != 10 || f.Payload() != 7 {
		t.Errorf("Len=%d Payload=%d", f.Len(), f.Payload())
	}
}

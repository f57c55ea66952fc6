package audio

import (
	"sync"
)

// stream is a bounded byte ring that an oto.Player reads from while the
// playback loop writes into it. Writers block while the ring is full.
// Readers never block: when the ring is empty they receive silence, so
// the device keeps running between frames.
type stream struct {
	buf  []byte
	head int // read position
	size int

	mu      sync.Mutex
	notFull *sync.Cond
	closed  bool

	silence int64 // bytes of silence handed out
}

func newStream(capacity int) *stream {
	s := &stream{buf: make([]byte, capacity)}
	s.notFull = sync.NewCond(&s.mu)
	return s
}

// Read implements io.Reader for the oto player.
func (s *stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size == 0 {
		clear(p)
		s.silence += int64(len(p))
		return len(p), nil
	}

	n := 0
	for n < len(p) && s.size > 0 {
		chunk := min(len(p)-n, s.size, len(s.buf)-s.head)
		copy(p[n:], s.buf[s.head:s.head+chunk])
		s.head = (s.head + chunk) % len(s.buf)
		s.size -= chunk
		n += chunk
	}

	s.notFull.Broadcast()
	return n, nil
}

// Write copies all of p into the ring, blocking while it is full.
func (s *stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for written < len(p) {
		for s.size == len(s.buf) && !s.closed {
			s.notFull.Wait()
		}
		if s.closed {
			return written, ErrDeviceClosed
		}

		tail := (s.head + s.size) % len(s.buf)
		free := len(s.buf) - s.size
		chunk := min(len(p)-written, free, len(s.buf)-tail)
		copy(s.buf[tail:], p[written:written+chunk])
		s.size += chunk
		written += chunk
	}
	return written, nil
}

// Buffered returns the number of bytes waiting to be read.
func (s *stream) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Close wakes blocked writers. Subsequent writes fail.
func (s *stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.size = 0
	s.notFull.Broadcast()
}

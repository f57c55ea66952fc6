package audio

import (
	"fmt"
	"sync"
	"time"
)

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnOpen  func(f Format)
	OnWrite func(p []byte)
	OnClose func()
}

// MockDevice implements Device for tests. It records every write and can
// simulate open failures and slow output.
type MockDevice struct {
	mu sync.Mutex

	format Format
	open   bool
	closed bool

	// Test configuration
	failEncodings map[Encoding]bool
	writeDelay    time.Duration
	callbacks     MockCallbacks

	// Recorded activity
	writes     [][]byte
	bytes      int64
	openCalls  int
	closeCalls int
}

// NewMockDevice creates a mock device with optional callbacks.
func NewMockDevice(callbacks ...MockCallbacks) *MockDevice {
	d := &MockDevice{failEncodings: make(map[Encoding]bool)}
	if len(callbacks) > 0 {
		d.callbacks = callbacks[0]
	}
	return d
}

// FailOpen makes Open fail for the given encodings.
func (d *MockDevice) FailOpen(encodings ...Encoding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range encodings {
		d.failEncodings[e] = true
	}
}

// SetWriteDelay simulates a device that takes d to accept each write.
func (d *MockDevice) SetWriteDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeDelay = delay
}

func (d *MockDevice) Open(f Format) error {
	d.mu.Lock()
	d.openCalls++
	if d.closed {
		d.mu.Unlock()
		return ErrDeviceClosed
	}
	if d.failEncodings[f.Encoding] {
		d.mu.Unlock()
		return fmt.Errorf("%w: simulated %s failure", ErrFormatUnavailable, f.Encoding)
	}
	d.format = f
	d.open = true
	cb := d.callbacks.OnOpen
	d.mu.Unlock()

	if cb != nil {
		cb(f)
	}
	return nil
}

func (d *MockDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, ErrDeviceClosed
	}
	if !d.open {
		d.mu.Unlock()
		return 0, ErrDeviceNotOpen
	}
	data := make([]byte, len(p))
	copy(data, p)
	d.writes = append(d.writes, data)
	d.bytes += int64(len(p))
	delay := d.writeDelay
	cb := d.callbacks.OnWrite
	d.mu.Unlock()

	if cb != nil {
		cb(data)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	return len(p), nil
}

func (d *MockDevice) Close() error {
	d.mu.Lock()
	d.closeCalls++
	already := d.closed
	d.closed = true
	d.open = false
	cb := d.callbacks.OnClose
	d.mu.Unlock()

	if cb != nil && !already {
		cb()
	}
	return nil
}

func (d *MockDevice) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && !d.closed
}

func (d *MockDevice) Format() Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

// Writes returns a copy of every buffer written so far.
func (d *MockDevice) Writes() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.writes))
	copy(out, d.writes)
	return out
}

// WriteCount returns the number of Write calls that succeeded.
func (d *MockDevice) WriteCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

// BytesWritten returns the total bytes accepted.
func (d *MockDevice) BytesWritten() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bytes
}

// Calls returns how many times Open and Close were called.
func (d *MockDevice) Calls() (opens, closes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openCalls, d.closeCalls
}

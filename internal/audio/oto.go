package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process. It is created on the first
// Open and shared by every OtoDevice afterwards.
var (
	sharedMu     sync.Mutex
	sharedCtx    *oto.Context
	sharedFormat Format
)

const (
	readyTimeout = 5 * time.Second
	// streamDuration bounds how far device writes may run ahead of the
	// speakers.
	streamDuration = 250 * time.Millisecond
)

// OtoDevice plays frames through the system audio output using oto.
type OtoDevice struct {
	mu     sync.Mutex
	player *oto.Player
	stream *stream
	format Format
	open   bool
	closed bool
}

// NewOtoDevice returns an unopened device.
func NewOtoDevice() *OtoDevice {
	return &OtoDevice{}
}

func otoFormat(e Encoding) oto.Format {
	if e == EncodingInt16LE {
		return oto.FormatSignedInt16LE
	}
	return oto.FormatFloat32LE
}

// sharedContext returns the process oto context, creating it for f on first
// use. A context that exists with a different format cannot serve f.
func sharedContext(f Format) (*oto.Context, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtx != nil {
		if sharedFormat != f {
			return nil, fmt.Errorf("%w: context already running as %s", ErrFormatUnavailable, sharedFormat)
		}
		return sharedCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       otoFormat(f.Encoding),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(readyTimeout):
		return nil, errors.New("audio context initialization timed out")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("audio context failed: %w", err)
	}

	log.Debug("Audio context initialized", "format", f)
	sharedCtx = ctx
	sharedFormat = f
	return ctx, nil
}

// Open starts a streaming player in format f.
func (d *OtoDevice) Open(f Format) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDeviceClosed
	}
	if d.open {
		if d.format == f {
			return nil
		}
		return fmt.Errorf("%w: device already open as %s", ErrFormatUnavailable, d.format)
	}

	ctx, err := sharedContext(f)
	if err != nil {
		return err
	}

	capacity := int(streamDuration.Seconds()*float64(f.SampleRate)) * f.BytesPerSample()
	d.stream = newStream(capacity)
	d.player = ctx.NewPlayer(d.stream)
	d.player.Play()
	d.format = f
	d.open = true
	return nil
}

// Write queues p for playback, blocking while the device buffer is full.
func (d *OtoDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	s, open, closed := d.stream, d.open, d.closed
	d.mu.Unlock()

	if closed {
		return 0, ErrDeviceClosed
	}
	if !open {
		return 0, ErrDeviceNotOpen
	}
	return s.Write(p)
}

// Close stops the player. The shared context stays alive for later
// devices.
func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.open = false

	var err error
	if d.stream != nil {
		d.stream.Close()
	}
	if d.player != nil {
		d.player.Pause()
		err = d.player.Close()
		d.player = nil
	}
	return err
}

func (d *OtoDevice) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && !d.closed
}

func (d *OtoDevice) Format() Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

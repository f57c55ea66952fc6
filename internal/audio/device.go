package audio

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

var (
	// ErrDeviceClosed is returned by Write after Close.
	ErrDeviceClosed = errors.New("audio device is closed")

	// ErrDeviceNotOpen is returned by Write before a successful Open.
	ErrDeviceNotOpen = errors.New("audio device is not open")

	// ErrFormatUnavailable is returned when the device cannot play a format.
	ErrFormatUnavailable = errors.New("audio format unavailable")
)

// Device is an audio output sink. Open must succeed before Write, and
// Close releases the device and unblocks any pending Write.
type Device interface {
	Open(f Format) error
	Write(p []byte) (int, error)
	Close() error
	// Active reports whether the device is open and accepting writes.
	Active() bool
	Format() Format
}

// OpenWithFallback opens dev with the first format that works, trying
// formats in order. It returns the format in use, or an error joining
// every attempt's failure when none could be opened.
func OpenWithFallback(dev Device, formats ...Format) (Format, error) {
	if len(formats) == 0 {
		formats = []Format{Float32, Int16}
	}

	var errs []error
	for i, f := range formats {
		err := dev.Open(f)
		if err == nil {
			if i > 0 {
				log.Info("Audio device opened with alternate format", "format", f)
			} else {
				log.Debug("Audio device opened", "format", f)
			}
			return f, nil
		}
		log.Warn("Audio device open failed", "format", f, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", f, err))
	}
	return Format{}, errors.Join(errs...)
}

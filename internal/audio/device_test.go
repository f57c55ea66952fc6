package audio

import (
	"errors"
	"testing"
)

func TestOpenWithFallback(t *testing.T) {
	tests := []struct {
		name    string
		fail    []Encoding
		want    Format
		wantErr bool
	}{
		{"primary", nil, Float32, false},
		{"alternate", []Encoding{EncodingFloat32LE}, Int16, false},
		{"none", []Encoding{EncodingFloat32LE, EncodingInt16LE}, Format{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewMockDevice()
			dev.FailOpen(tt.fail...)

			got, err := OpenWithFallback(dev, Float32, Int16)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrFormatUnavailable) {
					t.Errorf("expected ErrFormatUnavailable in %v", err)
				}
				if dev.Active() {
					t.Error("device should not be active")
				}
			}
		})
	}
}

func TestMockDeviceLifecycle(t *testing.T) {
	closed := 0
	dev := NewMockDevice(MockCallbacks{OnClose: func() { closed++ }})

	if _, err := dev.Write([]byte{1}); !errors.Is(err, ErrDeviceNotOpen) {
		t.Errorf("write before open: %v", err)
	}
	if err := dev.Open(Int16); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Write([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	dev.Close()
	dev.Close()

	if _, err := dev.Write([]byte{1}); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("write after close: %v", err)
	}
	if closed != 1 {
		t.Errorf("OnClose called %d times", closed)
	}
	if dev.BytesWritten() != 2 || dev.WriteCount() != 1 {
		t.Errorf("bytes=%d writes=%d", dev.BytesWritten(), dev.WriteCount())
	}
	if opens, closes := dev.Calls(); opens != 1 || closes != 2 {
		t.Errorf("opens=%d closes=%d", opens, closes)
	}
}

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Audio layout shared by every engine and device.
const (
	// SampleRate is the playback rate in Hz.
	SampleRate = 22050
	// Channels is the channel count (mono).
	Channels = 1
	// BaseFrameSamples is the number of samples in a ×1 frame.
	BaseFrameSamples = 2048
)

// Encoding is the sample representation sent to the device.
type Encoding int

const (
	EncodingFloat32LE Encoding = iota
	EncodingInt16LE
)

func (e Encoding) String() string {
	switch e {
	case EncodingFloat32LE:
		return "float32le"
	case EncodingInt16LE:
		return "int16le"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Format describes the PCM layout a device was opened with.
type Format struct {
	SampleRate int
	Channels   int
	Encoding   Encoding
}

// Float32 is the primary device format.
var Float32 = Format{SampleRate: SampleRate, Channels: Channels, Encoding: EncodingFloat32LE}

// Int16 is the alternate device format tried when Float32 cannot be opened.
var Int16 = Format{SampleRate: SampleRate, Channels: Channels, Encoding: EncodingInt16LE}

func (f Format) String() string {
	return fmt.Sprintf("%s/%dHz/%dch", f.Encoding, f.SampleRate, f.Channels)
}

// BytesPerSample returns the size of one sample across all channels.
func (f Format) BytesPerSample() int {
	switch f.Encoding {
	case EncodingInt16LE:
		return 2 * f.Channels
	default:
		return 4 * f.Channels
	}
}

// FrameBytes returns the size of a frame with the given size multiplier.
func (f Format) FrameBytes(multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return BaseFrameSamples * f.BytesPerSample() * multiplier
}

// Duration returns the playing time of n bytes.
func (f Format) Duration(n int) time.Duration {
	bps := f.BytesPerSample()
	if f.SampleRate == 0 || bps == 0 {
		return 0
	}
	samples := n / bps
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate)
}

// Encode serializes mono float samples in [-1, 1] to bytes. Samples
// outside that range are clipped.
func Encode(samples []float32, f Format) []byte {
	switch f.Encoding {
	case EncodingInt16LE:
		out := make([]byte, len(samples)*2)
		for i, s := range samples {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(floatToInt16(s)))
		}
		return out
	default:
		out := make([]byte, len(samples)*4)
		for i, s := range samples {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(clip(s)))
		}
		return out
	}
}

// Decode is the inverse of Encode. Trailing bytes that do not form a
// whole sample are ignored.
func Decode(data []byte, f Format) []float32 {
	switch f.Encoding {
	case EncodingInt16LE:
		out := make([]float32, len(data)/2)
		for i := range out {
			out[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
		}
		return out
	default:
		out := make([]float32, len(data)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out
	}
}

// Int16ToFloat converts signed 16-bit little-endian PCM, as produced by
// most command-line engines, to float samples.
func Int16ToFloat(data []byte) []float32 {
	return Decode(data, Int16)
}

// NormalizePeak scales samples in place so the largest magnitude equals
// target. Silent input is left as is.
func NormalizePeak(samples []float32, target float32) {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	scale := target / peak
	for i := range samples {
		samples[i] *= scale
	}
}

// Tone generates a sine wave.
func Tone(freq float64, d time.Duration, amplitude float64, sampleRate int) []float32 {
	n := int(d.Seconds() * float64(sampleRate))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

// Beep returns the short 440 Hz test tone encoded for f.
func Beep(f Format) []byte {
	return Encode(Tone(440, 100*time.Millisecond, 0.1, f.SampleRate), f)
}

// Silence returns d worth of zero bytes in format f.
func Silence(d time.Duration, f Format) []byte {
	n := int(d.Seconds() * float64(f.SampleRate))
	return make([]byte, n*f.BytesPerSample())
}

func clip(s float32) float32 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}

func floatToInt16(s float32) int16 {
	s = clip(s)
	if s >= 0 {
		return int16(s * 32767)
	}
	return int16(s * 32768)
}

// Resample converts samples between rates with linear interpolation.
func Resample(samples []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}
	ratio := float64(to) / float64(from)
	out := make([]float32, int(float64(len(samples))*ratio))
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= last {
			out[i] = samples[last]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}

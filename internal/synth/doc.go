// Package synth turns text chunks into queued audio frames. It defines the
// speech Engine contract with piper, mock and cached implementations, and
// the Worker that serializes engine access and slices audio into
// progressively sized frames for the playback queue.
package synth

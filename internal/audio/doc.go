// Package audio writes synthesized PCM frames to an output device. It
// holds the Device abstraction with its oto-backed and mock
// implementations, PCM format helpers, and the PlaybackLoop that drains
// the frame queue into a device while honoring pause state.
package audio

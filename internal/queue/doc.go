// Package queue provides the bounded frame queue between the synthesis
// worker and the playback loop. Producers block when it is full; the
// consumer polls with a short timeout so it can notice pause and stop
// signals.
package queue

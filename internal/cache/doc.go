// Package cache stores synthesized audio so repeated text is not sent
// through the speech engine twice. It has an in-memory LRU tier and a
// persistent zstd-compressed disk tier, coordinated by Manager.
package cache

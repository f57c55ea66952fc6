package audio

import "sync"

// Gate holds the audio pause flag and the interactive override. While
// paused, and not interactive, the playback loop writes nothing.
//
// SetPaused waits for an in-flight device write to finish, so once it
// returns true no further write starts until the gate reopens.
type Gate struct {
	mu          sync.RWMutex
	paused      bool
	interactive bool
}

func (g *Gate) SetPaused(paused bool) {
	g.mu.Lock()
	g.paused = paused
	g.mu.Unlock()
}

func (g *Gate) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// SetInteractive toggles the override that lets answers play while the
// lecture is paused.
func (g *Gate) SetInteractive(on bool) {
	g.mu.Lock()
	g.interactive = on
	g.mu.Unlock()
}

func (g *Gate) Interactive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.interactive
}

// Blocked reports whether playback must hold.
func (g *Gate) Blocked() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.blocked()
}

func (g *Gate) blocked() bool {
	return g.paused && !g.interactive
}

// run calls fn with the gate held open. It returns false, without calling
// fn, when playback is blocked.
func (g *Gate) run(fn func()) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.blocked() {
		return false
	}
	fn()
	return true
}

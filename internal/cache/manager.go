package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var _ Cache = (*Manager)(nil)

// Manager checks the memory tier before the disk tier and promotes disk
// hits into memory. Writes go to both tiers.
type Manager struct {
	memory *Memory
	disk   *Disk
	ttl    time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewManager builds both tiers. With an empty cfg.Dir only the memory
// tier is used.
func NewManager(cfg Config) (*Manager, error) {
	def := DefaultConfig()
	if cfg.MemoryCapacity <= 0 {
		cfg.MemoryCapacity = def.MemoryCapacity
	}
	if cfg.DiskCapacity <= 0 {
		cfg.DiskCapacity = def.DiskCapacity
	}

	m := &Manager{
		memory: NewMemory(cfg.MemoryCapacity),
		ttl:    cfg.TTL,
		stop:   make(chan struct{}),
	}

	if cfg.Dir != "" {
		disk, err := NewDisk(cfg.Dir, cfg.DiskCapacity, cfg.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		m.disk = disk
		m.cleanup()
		if cfg.CleanupInterval > 0 && cfg.TTL > 0 {
			m.wg.Add(1)
			go m.cleanupLoop(cfg.CleanupInterval)
		}
	}
	return m, nil
}

func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		return data, true
	}
	if m.disk == nil {
		return nil, false
	}
	data, ok := m.disk.Get(key)
	if ok {
		_ = m.memory.Put(key, data)
	}
	return data, ok
}

func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if m.disk == nil {
		return nil
	}
	if err := m.disk.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}

func (m *Manager) Delete(key string) error {
	err := m.memory.Delete(key)
	if m.disk != nil {
		err = errors.Join(err, m.disk.Delete(key))
	}
	return err
}

func (m *Manager) Clear() error {
	err := m.memory.Clear()
	if m.disk != nil {
		err = errors.Join(err, m.disk.Clear())
	}
	return err
}

// Stats sums the tiers. A lookup counts as a miss only when the last tier
// misses, so Hits+Misses is the number of Get calls.
func (m *Manager) Stats() Stats {
	mem := m.memory.Stats()
	if m.disk == nil {
		return mem
	}
	disk := m.disk.Stats()
	return Stats{
		Capacity:  mem.Capacity + disk.Capacity,
		Size:      mem.Size + disk.Size,
		Items:     mem.Items + disk.Items,
		Hits:      mem.Hits + disk.Hits,
		Misses:    disk.Misses,
		Evictions: mem.Evictions + disk.Evictions,
	}
}

// LevelStats returns the statistics of each tier. There is no disk entry
// when no disk tier is configured.
func (m *Manager) LevelStats() map[Level]Stats {
	out := map[Level]Stats{LevelMemory: m.memory.Stats()}
	if m.disk != nil {
		out[LevelDisk] = m.disk.Stats()
	}
	return out
}

// Close stops background cleanup and persists the disk index.
func (m *Manager) Close() error {
	var err error
	m.once.Do(func() {
		close(m.stop)
		m.wg.Wait()
		if m.disk != nil {
			err = m.disk.Close()
		}
	})
	return err
}

func (m *Manager) cleanupLoop(interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Manager) cleanup() {
	if m.disk == nil || m.ttl <= 0 {
		return
	}
	if n := m.disk.RemoveOlderThan(time.Now().Add(-m.ttl)); n > 0 {
		log.Debug("Expired cached audio", "entries", n)
	}
}

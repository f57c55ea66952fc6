package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// Disk is a persistent cache. Values are zstd-compressed into one file per
// key, and a gob index tracks sizes and access times across restarts.
type Disk struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry

	mu     sync.Mutex
	stats  Stats
	closed bool
}

type diskEntry struct {
	Key        string
	File       string
	Size       int64 // on disk
	Original   int64
	Created    time.Time
	LastAccess time.Time
}

// NewDisk opens (or creates) a disk cache under dir.
func NewDisk(dir string, capacity int64, level int) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if level <= 0 {
		level = 3
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	d := &Disk{
		dir:      dir,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
		index:    make(map[string]*diskEntry),
	}
	if err := d.loadIndex(); err != nil {
		log.Warn("Disk cache index unreadable, starting empty", "dir", dir, "error", err)
		d.index = make(map[string]*diskEntry)
	}
	for _, e := range d.index {
		d.size += e.Size
	}
	return d, nil
}

func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.index[key]
	if !ok {
		d.stats.Misses++
		return nil, false
	}

	raw, err := os.ReadFile(entry.File)
	if err == nil {
		var data []byte
		data, err = d.decoder.DecodeAll(raw, nil)
		if err == nil {
			entry.LastAccess = time.Now()
			d.stats.Hits++
			return data, true
		}
	}

	log.Debug("Dropping unreadable cache entry", "file", entry.File, "error", err)
	d.removeEntry(entry)
	d.stats.Misses++
	return nil, false
}

func (d *Disk) Put(key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrCacheClosed
	}

	compressed := d.encoder.EncodeAll(value, nil)
	n := int64(len(compressed))
	if n > d.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := d.index[key]; ok {
		d.removeEntry(existing)
	}
	for d.size+n > d.capacity && len(d.index) > 0 {
		d.evictOldest()
	}

	path := filepath.Join(d.dir, key[:min(len(key), 32)]+".zst")
	if err := writeAtomic(path, compressed); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	d.index[key] = &diskEntry{
		Key:        key,
		File:       path,
		Size:       n,
		Original:   int64(len(value)),
		Created:    now,
		LastAccess: now,
	}
	d.size += n
	return nil
}

func (d *Disk) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.index[key]; ok {
		d.removeEntry(entry)
	}
	return nil
}

func (d *Disk) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, entry := range d.index {
		os.Remove(entry.File)
	}
	d.index = make(map[string]*diskEntry)
	d.size = 0
	return d.saveIndex()
}

func (d *Disk) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stats
	s.Capacity = d.capacity
	s.Size = d.size
	s.Items = int64(len(d.index))
	return s
}

// RemoveOlderThan drops entries created before cutoff.
func (d *Disk) RemoveOlderThan(cutoff time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for _, entry := range d.index {
		if entry.Created.Before(cutoff) {
			d.removeEntry(entry)
			removed++
		}
	}
	return removed
}

// Close writes the index. The cache rejects writes afterwards.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.encoder.Close()
	d.decoder.Close()
	return d.saveIndex()
}

func (d *Disk) evictOldest() {
	var oldest *diskEntry
	for _, entry := range d.index {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldest = entry
		}
	}
	if oldest != nil {
		d.removeEntry(oldest)
		d.stats.Evictions++
	}
}

func (d *Disk) removeEntry(entry *diskEntry) {
	os.Remove(entry.File)
	d.size -= entry.Size
	delete(d.index, entry.Key)
}

func (d *Disk) loadIndex() error {
	f, err := os.Open(filepath.Join(d.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(&d.index)
}

func (d *Disk) saveIndex() error {
	path := filepath.Join(d.dir, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(f).Encode(d.index)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

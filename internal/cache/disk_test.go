package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskRoundTripAndReopen(t *testing.T) {
	dir := t.TempDir()
	value := bytes.Repeat([]byte("lecture audio "), 200)
	key := Key("mock", "", "some text", 2)

	d, err := NewDisk(dir, 1<<20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Put(key, value); err != nil {
		t.Fatal(err)
	}
	if s := d.Stats(); s.Size >= int64(len(value)) {
		t.Errorf("expected compression, stored %d of %d bytes", s.Size, len(value))
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	d, err = NewDisk(dir, 1<<20, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	got, ok := d.Get(key)
	if !ok || !bytes.Equal(got, value) {
		t.Fatalf("reopened cache lost the entry (ok=%v)", ok)
	}
}

func TestDiskCorruptFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	d, _ := NewDisk(dir, 1<<20, 1)
	defer d.Close()

	key := Key("mock", "", "x", 2)
	_ = d.Put(key, []byte("payload"))

	if err := os.WriteFile(filepath.Join(dir, key[:32]+".zst"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(key); ok {
		t.Error("corrupt entry should be a miss")
	}
	if d.Stats().Items != 0 {
		t.Error("corrupt entry should be removed from the index")
	}
}

func TestDiskEvictionAndExpiry(t *testing.T) {
	d, _ := NewDisk(t.TempDir(), 1<<20, 1)
	defer d.Close()

	_ = d.Put(Key("a", "", "1", 1), []byte("one"))
	_ = d.Put(Key("a", "", "2", 1), []byte("two"))

	if n := d.RemoveOlderThan(time.Now().Add(time.Hour)); n != 2 {
		t.Errorf("RemoveOlderThan removed %d, want 2", n)
	}
	if d.Stats().Size != 0 {
		t.Errorf("Size = %d after removing everything", d.Stats().Size)
	}
}

func TestManagerPromotesDiskHits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.CleanupInterval = 0

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	key := Key("mock", "", "promote me", 2)
	if err := m.Put(key, []byte("pcm")); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	m, err = NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if _, ok := m.Get(key); !ok {
		t.Fatal("expected disk hit after reopen")
	}
	if _, ok := m.Get(key); !ok {
		t.Fatal("expected memory hit")
	}
	stats := m.LevelStats()
	if stats[LevelMemory].Hits != 1 || stats[LevelDisk].Hits != 1 {
		t.Errorf("memory hits %d, disk hits %d", stats[LevelMemory].Hits, stats[LevelDisk].Hits)
	}
	if total := m.Stats(); total.Hits != 2 || total.Misses != 0 {
		t.Errorf("total hits %d, misses %d", total.Hits, total.Misses)
	}
}

func TestManagerMemoryOnly(t *testing.T) {
	m, err := NewManager(Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	_ = m.Put("k", []byte("v"))
	if v, ok := m.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	if _, ok := m.LevelStats()[LevelDisk]; ok {
		t.Error("memory-only manager should not report a disk tier")
	}
	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
}

package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// LocalCache is the offline copy of the board: a JSON array of records,
// sorted and capped like the remote list.
type LocalCache struct {
	path string
	mu   sync.Mutex
}

func NewLocalCache(path string) *LocalCache {
	return &LocalCache{path: path}
}

// Load returns the cached records. A missing or corrupt file reads as empty.
func (c *LocalCache) Load() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *LocalCache) load() []Record {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return []Record{}
	}
	records, err := parseRecords(data)
	if err != nil {
		return []Record{}
	}
	return records
}

// Add merges rec into the cache and rewrites the file.
func (c *LocalCache) Add(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := append(c.load(), rec)
	return c.write(rankRecords(records, TopN))
}

// write replaces the file atomically through a temp file in the same dir.
func (c *LocalCache) write(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".leaderboard-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

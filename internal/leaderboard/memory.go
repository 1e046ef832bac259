package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MemoryStore ranks records in a skip list. Scores are negated durations so
// rank 1 is the fastest run. Useful for tests and ephemeral servers.
type MemoryStore struct {
	mu      sync.RWMutex
	ranks   *rankList
	records map[string]Record
	nextID  int
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ranks:   newRankList(uint64(time.Now().UnixNano())),
		records: make(map[string]Record),
		now:     time.Now,
	}
}

// rankKey pads ids so equal durations keep submission order.
func rankKey(id int) string { return fmt.Sprintf("%012d", id) }

func (m *MemoryStore) Top(_ context.Context, n int) ([]Record, error) {
	if n <= 0 || n > TopN {
		n = TopN
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.ranks.rangeByRank(1, n)
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = m.records[e.Key]
	}
	return out, nil
}

func (m *MemoryStore) Submit(_ context.Context, sub Submission) (Record, error) {
	sub, err := sub.Normalize()
	if err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	key := rankKey(m.nextID)
	rec := Record{
		ID:         strconv.Itoa(m.nextID),
		Username:   sub.Username,
		DurationMs: sub.DurationMs,
		DayCount:   sub.DayCount,
		CreatedAt:  m.now().UTC().Format(time.RFC3339),
	}
	m.records[key] = rec
	m.ranks.insert(rankEntry{Key: key, Score: -rec.DurationMs})
	return rec, nil
}

// Rank returns the 1-based position of a record id, or 0 if unknown.
func (m *MemoryStore) Rank(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[rankKey(n)]
	if !ok {
		return 0
	}
	return m.ranks.rank(rankEntry{Key: rankKey(n), Score: -rec.DurationMs})
}

// Len is the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ranks.size()
}

func (m *MemoryStore) Close() error { return nil }

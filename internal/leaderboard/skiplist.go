package leaderboard

import "math/rand/v2"

// Skip list with span counts for O(log n) rank queries (Pugh 1990, the
// layout Redis uses for sorted sets). Entries are ordered by score
// descending, ties by key ascending. Not safe for concurrent use.

const (
	maxLevel         = 32
	levelProbability = 0.25
)

type rankEntry struct {
	Key   string
	Score float64
}

// before reports whether a ranks ahead of b.
func (a rankEntry) before(b rankEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Key < b.Key
}

type rankNode struct {
	entry rankEntry
	next  []*rankNode
	span  []int // distance to next[i], counted in level-0 hops
}

type rankList struct {
	head   *rankNode
	level  int
	length int
	rng    *rand.Rand
}

func newRankList(seed uint64) *rankList {
	return &rankList{
		head: &rankNode{
			next: make([]*rankNode, maxLevel),
			span: make([]int, maxLevel),
		},
		level: 1,
		rng:   rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (l *rankList) randomLevel() int {
	level := 1
	for level < maxLevel && l.rng.Float64() < levelProbability {
		level++
	}
	return level
}

// insert adds e. Keys are assumed unique.
func (l *rankList) insert(e rankEntry) {
	var update [maxLevel]*rankNode
	var rank [maxLevel]int

	x := l.head
	for i := l.level - 1; i >= 0; i-- {
		if i < l.level-1 {
			rank[i] = rank[i+1]
		}
		for x.next[i] != nil && x.next[i].entry.before(e) {
			rank[i] += x.span[i]
			x = x.next[i]
		}
		update[i] = x
	}

	level := l.randomLevel()
	if level > l.level {
		for i := l.level; i < level; i++ {
			rank[i] = 0
			update[i] = l.head
			update[i].span[i] = l.length
		}
		l.level = level
	}

	node := &rankNode{
		entry: e,
		next:  make([]*rankNode, level),
		span:  make([]int, level),
	}
	for i := 0; i < level; i++ {
		node.next[i] = update[i].next[i]
		update[i].next[i] = node
		node.span[i] = update[i].span[i] - (rank[0] - rank[i])
		update[i].span[i] = rank[0] - rank[i] + 1
	}
	for i := level; i < l.level; i++ {
		update[i].span[i]++
	}
	l.length++
}

// rank is the 1-based position of e, or 0 if absent.
func (l *rankList) rank(e rankEntry) int {
	rank := 0
	x := l.head
	for i := l.level - 1; i >= 0; i-- {
		for x.next[i] != nil && (x.next[i].entry.before(e) || x.next[i].entry == e) {
			rank += x.span[i]
			x = x.next[i]
		}
		if x != l.head && x.entry == e {
			return rank
		}
	}
	return 0
}

// rangeByRank returns entries in [start, end], 1-based and inclusive.
func (l *rankList) rangeByRank(start, end int) []rankEntry {
	if start <= 0 {
		start = 1
	}
	if end > l.length {
		end = l.length
	}
	if start > end {
		return nil
	}

	traversed := 0
	x := l.head
	for i := l.level - 1; i >= 0; i-- {
		for x.next[i] != nil && traversed+x.span[i] < start {
			traversed += x.span[i]
			x = x.next[i]
		}
	}

	out := make([]rankEntry, 0, end-start+1)
	for x = x.next[0]; x != nil && traversed < end; x = x.next[0] {
		traversed++
		out = append(out, x.entry)
	}
	return out
}

func (l *rankList) size() int { return l.length }

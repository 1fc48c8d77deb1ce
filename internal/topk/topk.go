// Package topk implements a bounded best-k collector for similarity
// scores. It keeps the k highest-scoring entries seen so far in a
// value-based binary min-heap, so a full corpus scan costs O(N log k)
// with zero allocations after construction.
package topk

// Entry is one candidate held by a Collector.
type Entry struct {
	Row   uint32  // dense row index (or any caller-defined id)
	Score float32 // similarity score, higher is better
}

// Collector accumulates entries and retains the k best.
//
// Ties are broken by discovery order: when scores are equal, the entry
// added first wins and sorts first. Callers that need deterministic tie
// handling must therefore add entries in a deterministic order.
type Collector struct {
	k       int
	entries []Entry // min-heap on (Score asc, Row desc)
}

// New creates a Collector retaining the k best entries.
// k must be positive.
func New(k int) *Collector {
	return &Collector{
		k:       k,
		entries: make([]Entry, 0, k),
	}
}

// worse reports whether entry i ranks below entry j.
// Lower score is worse; on equal scores the later row is worse, which
// preserves discovery order for ties.
func worse(i, j Entry) bool {
	if i.Score != j.Score {
		return i.Score < j.Score
	}
	return i.Row > j.Row
}

// Add offers an entry to the collector.
func (c *Collector) Add(row uint32, score float32) {
	e := Entry{Row: row, Score: score}

	if len(c.entries) < c.k {
		c.entries = append(c.entries, e)
		c.siftUp(len(c.entries) - 1)
		return
	}

	// Full: replace the current worst only if e ranks above it.
	if worse(e, c.entries[0]) || e == c.entries[0] {
		return
	}
	c.entries[0] = e
	c.siftDown(0)
}

// Len returns the number of entries currently held.
func (c *Collector) Len() int { return len(c.entries) }

// Drain removes and returns all held entries sorted best-first
// (descending score, discovery order among ties). The collector is
// empty afterwards.
func (c *Collector) Drain() []Entry {
	out := make([]Entry, len(c.entries))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = c.pop()
	}
	return out
}

// pop removes and returns the worst entry.
func (c *Collector) pop() Entry {
	n := len(c.entries)
	root := c.entries[0]
	c.entries[0] = c.entries[n-1]
	c.entries = c.entries[:n-1]
	if len(c.entries) > 0 {
		c.siftDown(0)
	}
	return root
}

func (c *Collector) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !worse(c.entries[i], c.entries[p]) {
			return
		}
		c.entries[i], c.entries[p] = c.entries[p], c.entries[i]
		i = p
	}
}

func (c *Collector) siftDown(i int) {
	n := len(c.entries)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		if r := l + 1; r < n && worse(c.entries[r], c.entries[l]) {
			worst = r
		}
		if !worse(c.entries[worst], c.entries[i]) {
			return
		}
		c.entries[i], c.entries[worst] = c.entries[worst], c.entries[i]
		i = worst
	}
}

// Merge folds the entries of other into c.
// Used to combine per-shard collectors after a fan-out search.
func (c *Collector) Merge(other *Collector) {
	for _, e := range other.entries {
		c.Add(e.Row, e.Score)
	}
}

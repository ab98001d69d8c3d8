// Package dsa implements the two in-memory data structures the search
// engines share: a bounded max-unique priority queue for tracking the best
// programs found so far, and a weighted roulette-wheel sampler for replaying
// past attempts. Grounded on original_source/all.py's MaxUniquePriorityQueue
// and RouletteWheel classes; internal/infra/dsa/heap.go's sift-up/sift-down
// and sync.Mutex discipline is reused, generalized from a starvation-avoiding
// task scheduler to a score-ordered bounded heap.
package dsa

import (
	"math/rand"
	"sync"

	"github.com/evosynth/evosynth/internal/domain"
)

// Item is one entry tracked by a MaxUniquePriorityQueue.
type Item struct {
	Score float64
	Key   string // uniqueness key
	Value any    // caller payload, e.g. the program string
}

type heapEntry struct {
	Item
}

// MaxUniquePriorityQueue keeps the capacity highest-scored unique items seen.
// Internally a min-heap so the lowest-scored item is the one evicted when a
// new item arrives at capacity; duplicates (by Key) are rejected outright.
// Safe for concurrent use.
type MaxUniquePriorityQueue struct {
	mu       sync.Mutex
	capacity int
	heap     []heapEntry
	seen     map[string]bool
}

// NewMaxUniquePriorityQueue constructs an empty queue bounded at capacity.
func NewMaxUniquePriorityQueue(capacity int) *MaxUniquePriorityQueue {
	return &MaxUniquePriorityQueue{
		capacity: capacity,
		seen:     make(map[string]bool),
	}
}

// Push adds an item. If key was already pushed, it is silently ignored
// (rescoring an existing key is not supported, matching the Python original).
// If the queue is at capacity, the new item replaces the current
// lowest-scored item only if its score is higher; otherwise it is dropped.
func (q *MaxUniquePriorityQueue) Push(score float64, key string, value any) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[key] {
		return
	}
	entry := heapEntry{Item{Score: score, Key: key, Value: value}}
	if len(q.heap) >= q.capacity {
		if q.capacity == 0 {
			return
		}
		if score <= q.heap[0].Score {
			return
		}
		popped := q.heap[0]
		q.heap[0] = entry
		q.siftDown(0)
		delete(q.seen, popped.Key)
		q.seen[key] = true
		return
	}
	q.heap = append(q.heap, entry)
	q.seen[key] = true
	q.siftUp(len(q.heap) - 1)
}

// Pop removes and returns the lowest-scored item. ok is false if empty.
func (q *MaxUniquePriorityQueue) Pop() (item Item, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return Item{}, false
	}
	top := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap = q.heap[:last]
	if len(q.heap) > 0 {
		q.siftDown(0)
	}
	delete(q.seen, top.Key)
	return top.Item, true
}

// GetMax returns the highest-scored item without removing it.
func (q *MaxUniquePriorityQueue) GetMax() (item Item, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return Item{}, false
	}
	best := q.heap[0]
	for _, e := range q.heap[1:] {
		if e.Score > best.Score {
			best = e
		}
	}
	return best.Item, true
}

// GetMin returns the lowest-scored item without removing it.
func (q *MaxUniquePriorityQueue) GetMin() (item Item, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return Item{}, false
	}
	return q.heap[0].Item, true
}

// Len returns the number of items currently held.
func (q *MaxUniquePriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// IterInOrder returns every item, sorted from highest to lowest score. Does
// not modify the queue.
func (q *MaxUniquePriorityQueue) IterInOrder() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]Item, len(q.heap))
	for i, e := range q.heap {
		items[i] = e.Item
	}
	sortDescending(items)
	return items
}

// RandomSample draws n items uniformly at random, with replacement, from the
// current contents (not weighted by score). Does not modify the queue.
func (q *MaxUniquePriorityQueue) RandomSample(n int, rng *rand.Rand) []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	out := make([]Item, n)
	for i := range out {
		out[i] = q.heap[rng.Intn(len(q.heap))].Item
	}
	return out
}

func sortDescending(items []Item) {
	for i := 1; i < len(items); i++ {
		v := items[i]
		j := i - 1
		for j >= 0 && items[j].Score < v.Score {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = v
	}
}

func (q *MaxUniquePriorityQueue) less(i, j int) bool {
	return q.heap[i].Score < q.heap[j].Score
}

func (q *MaxUniquePriorityQueue) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if q.less(idx, parent) {
			q.heap[idx], q.heap[parent] = q.heap[parent], q.heap[idx]
			idx = parent
		} else {
			break
		}
	}
}

func (q *MaxUniquePriorityQueue) siftDown(idx int) {
	n := len(q.heap)
	for {
		smallest := idx
		left := 2*idx + 1
		right := 2*idx + 2
		if left < n && q.less(left, smallest) {
			smallest = left
		}
		if right < n && q.less(right, smallest) {
			smallest = right
		}
		if smallest == idx {
			break
		}
		q.heap[idx], q.heap[smallest] = q.heap[smallest], q.heap[idx]
		idx = smallest
	}
}

// errEmpty mirrors domain.ErrEmptyPriorityHeap for callers that want an
// error-returning variant instead of the ok-bool one above.
var errEmpty = domain.ErrEmptyPriorityHeap

// MustPop is Pop but returns errEmpty instead of ok=false.
func (q *MaxUniquePriorityQueue) MustPop() (Item, error) {
	item, ok := q.Pop()
	if !ok {
		return Item{}, errEmpty
	}
	return item, nil
}

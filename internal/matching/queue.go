// Package matching implements the FIFO waiting queue that feeds the
// pairing engine.
package matching

import "sync"

// Queue is an ordered list of user IDs waiting to be paired. Order is
// strict FIFO and a user appears at most once. Entries whose owner has
// since left or been banned are not purged here; the engine discards
// them lazily when draining pairs.
type Queue struct {
	mu  sync.Mutex
	ids []int64
}

// NewQueue creates an empty waiting queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends id to the tail. Returns false if id is already queued.
func (q *Queue) Enqueue(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, v := range q.ids {
		if v == id {
			return false
		}
	}
	q.ids = append(q.ids, id)
	return true
}

// PopPair removes and returns the two oldest entries. ok is false when
// fewer than two users are queued, in which case the queue is unchanged.
func (q *Queue) PopPair() (a, b int64, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ids) < 2 {
		return 0, 0, false
	}
	a, b = q.ids[0], q.ids[1]
	q.ids = q.ids[2:]
	return a, b, true
}

// Remove deletes id from the queue if present; no-op otherwise.
func (q *Queue) Remove(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, v := range q.ids {
		if v == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return
		}
	}
}

// Contains reports whether id is currently queued.
func (q *Queue) Contains(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, v := range q.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// Snapshot returns a copy of the queued IDs in FIFO order.
func (q *Queue) Snapshot() []int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]int64, len(q.ids))
	copy(out, q.ids)
	return out
}

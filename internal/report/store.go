// Package report counts abuse reports per accused user. Counters are
// monotonic and never reset for the life of the process.
package report

import "sync"

// Threshold is the number of reports that triggers a forced disconnect
// of the accused user.
const Threshold = 3

// Store keeps report counters in memory.
type Store struct {
	mu     sync.Mutex
	counts map[int64]int
}

// NewStore creates an empty report store.
func NewStore() *Store {
	return &Store{counts: make(map[int64]int)}
}

// Add increments the counter for the accused user. crossed is true only
// when this report brings the count to exactly Threshold, so the
// threshold action fires once per crossing, not before and not again
// on later reports.
func (s *Store) Add(accused int64) (count int, crossed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[accused]++
	count = s.counts[accused]
	return count, count == Threshold
}

// Count returns the current counter for the accused user.
func (s *Store) Count(accused int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[accused]
}

// Package sequence implements the per-court-per-year case number counters.
//
// Every implementation must make Next a single atomic increment-and-return:
// two concurrent callers for the same (courtCode, year) pair must receive
// distinct, consecutive values. Counters are never decremented or deleted.
package sequence

import (
	"context"
	"sync"
)

type counterKey struct {
	courtCode string
	year      int
}

// InMemory issues sequences under a mutex. Used by unit tests and local
// development.
type InMemory struct {
	mu       sync.Mutex
	counters map[counterKey]int64
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[counterKey]int64)}
}

// Next increments the pair's counter and returns the new value, initialising
// to 1 on first use.
func (s *InMemory) Next(_ context.Context, courtCode string, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey{courtCode: courtCode, year: year}
	s.counters[key]++
	return s.counters[key], nil
}

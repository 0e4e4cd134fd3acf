package mocks

import (
	"sync"

	"github.com/mcoot/wordquiz/internal/dependencies/random"
)

// MockRandom replays queued Intn results. Queued values are reduced modulo n
// so a draw never indexes past the slice it was asked for.
type MockRandom struct {
	mu      sync.Mutex
	results []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn pops the next queued result, or returns 0 once the queue is empty
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || len(r.results) == 0 {
		return 0
	}
	next := r.results[0]
	r.results = r.results[1:]
	if next < 0 {
		next = -next
	}
	return next % n
}

// QueueIntn adds values to the result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	r.results = append(r.results, values...)
	r.mu.Unlock()
}

// Pending reports how many queued results have not been consumed
func (r *MockRandom) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockRandomReplaysQueue(t *testing.T) {
	r := NewMockRandom()
	r.QueueIntn(2, 7, -1)

	assert.Equal(t, 3, r.Pending())
	assert.Equal(t, 2, r.Intn(4))
	assert.Equal(t, 3, r.Intn(4), "out of range results wrap")
	assert.Equal(t, 1, r.Intn(4), "negative results are folded")
	assert.Equal(t, 0, r.Intn(4), "empty queue yields zero")
	assert.Equal(t, 0, r.Pending())
}

func TestMockClockMoves(t *testing.T) {
	start := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

package random

import (
	"crypto/rand"
	"math/big"
)

// Random picks indexes for word draws; injected so tests can fix the outcome
type Random interface {
	// Intn returns a random int in [0, n), or 0 when n <= 0
	Intn(n int) int
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a uniformly distributed int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS source is unavailable
		return 0
	}
	return int(result.Int64())
}

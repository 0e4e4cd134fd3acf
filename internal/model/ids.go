package model

import "github.com/google/uuid"

// NewID returns a random identifier with the given prefix, e.g. "p_" for players
func NewID(prefix string) string {
	return prefix + uuid.NewString()
}

package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is the persisted player record
type Player struct {
	ID          PlayerID
	Email       string
	Phone       string
	DisplayName string
	TotalScore  int64 // monotonic, never negative
	GamesPlayed int
	IsActive    bool
	CreatedAt   time.Time
}

// PlayerCredentials holds login data for a player
// Stored separately so the hash never travels with the player record
type PlayerCredentials struct {
	PlayerID     PlayerID
	Email        string // lowercased, unique
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package model

import "time"

// ScoreEventID identifies a single score event
type ScoreEventID string

// ScoreEvent is one immutable point-earning record
type ScoreEvent struct {
	ID        ScoreEventID
	PlayerID  PlayerID
	Points    int64
	Challenge bool // counts toward the cumulative challenge track
	CreatedAt time.Time
}

// Window selects the time range a leaderboard aggregates over
type Window string

const (
	WindowWeekly    Window = "weekly"
	WindowMonthly   Window = "monthly"
	WindowChallenge Window = "challenge"
)

// ParseWindow validates a window name
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowWeekly, WindowMonthly, WindowChallenge:
		return w, nil
	default:
		return "", ErrInvalidWindow
	}
}

// LeaderboardEntry is one ranked row, computed per request
type LeaderboardEntry struct {
	Rank        int
	PlayerID    PlayerID
	DisplayName string
	Score       int64
}

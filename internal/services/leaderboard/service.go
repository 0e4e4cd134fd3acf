package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// Errors
var (
	ErrInvalidLimit = errors.New("limit must be at least 1")
	ErrNotRanked    = errors.New("player has no qualifying score in this window")
)

const (
	// DefaultLimit is used by callers that do not ask for a specific size
	DefaultLimit = 10
	// MaxLimit caps how many entries a single ranking returns
	MaxLimit = 1000
)

// Config holds configuration for the leaderboard service
type Config struct {
	// Location anchors the weekly and monthly window boundaries
	Location *time.Location
}

// DefaultConfig returns default leaderboard configuration
func DefaultConfig() Config {
	return Config{Location: time.UTC}
}

// Service computes rankings from raw score events on every call
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	metrics *metrics.Manager
}

// New creates a new leaderboard Service. metrics may be nil.
func New(storage storage.Storage, clock clock.Clock, cfg Config, metrics *metrics.Manager) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		metrics: metrics,
	}
}

// Query returns the event selection for a window, relative to the current time.
// Weekly starts Monday 00:00 and monthly on the 1st at 00:00, both in the
// configured location. The challenge window is every challenge event ever recorded.
func (s *Service) Query(window model.Window) (storage.ScoreQuery, error) {
	now := s.clock.Now().In(s.cfg.Location)

	switch window {
	case model.WindowWeekly:
		// Go weeks start on Sunday; shift so Monday is day 0.
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, s.cfg.Location)
		return storage.ScoreQuery{Since: start}, nil
	case model.WindowMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.cfg.Location)
		return storage.ScoreQuery{Since: start}, nil
	case model.WindowChallenge:
		return storage.ScoreQuery{ChallengeOnly: true}, nil
	default:
		return storage.ScoreQuery{}, model.ErrInvalidWindow
	}
}

// Rank returns the top entries for a window using competition ranking (1, 2, 2, 4).
// Limits above MaxLimit are clamped.
func (s *Service) Rank(ctx context.Context, window model.Window, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	limit = min(limit, MaxLimit)

	entries, err := s.standings(ctx, window)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// PlayerStanding returns a single player's entry, ranked against every qualifying player
func (s *Service) PlayerStanding(ctx context.Context, window model.Window, playerID model.PlayerID) (*model.LeaderboardEntry, error) {
	entries, err := s.standings(ctx, window)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].PlayerID == playerID {
			return &entries[i], nil
		}
	}
	return nil, ErrNotRanked
}

type tally struct {
	playerID model.PlayerID
	score    int64
	first    time.Time
}

// addScore sums non-negative points, saturating at math.MaxInt64 instead of wrapping
func addScore(total, points int64) int64 {
	if points <= 0 {
		return total
	}
	if total > math.MaxInt64-points {
		return math.MaxInt64
	}
	return total + points
}

func (s *Service) standings(ctx context.Context, window model.Window) (entries []model.LeaderboardEntry, err error) {
	q, err := s.Query(window)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveLeaderboard(string(window), time.Since(started), err)
	}()

	events, err := s.storage.ListScoreEvents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}

	tallies := make(map[model.PlayerID]*tally)
	for _, e := range events {
		if !q.Matches(e) {
			continue
		}
		t, ok := tallies[e.PlayerID]
		if !ok {
			t = &tally{playerID: e.PlayerID, first: e.CreatedAt}
			tallies[e.PlayerID] = t
		}
		t.score = addScore(t.score, e.Points)
		if e.CreatedAt.Before(t.first) {
			t.first = e.CreatedAt
		}
	}

	ids := make([]model.PlayerID, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	players, err := s.storage.GetPlayers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}

	ranked := make([]*tally, 0, len(tallies))
	for id, t := range tallies {
		if p, ok := players[id]; ok && p.IsActive {
			ranked = append(ranked, t)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.first.Equal(b.first) {
			return a.first.Before(b.first)
		}
		return a.playerID < b.playerID
	})

	entries = make([]model.LeaderboardEntry, len(ranked))
	for i, t := range ranked {
		rank := i + 1
		if i > 0 && t.score == ranked[i-1].score {
			rank = entries[i-1].Rank
		}
		entries[i] = model.LeaderboardEntry{
			Rank:        rank,
			PlayerID:    t.playerID,
			DisplayName: players[t.playerID].DisplayName,
			Score:       t.score,
		}
	}
	return entries, nil
}

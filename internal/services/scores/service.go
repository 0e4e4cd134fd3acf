package scores

import (
	"context"
	"errors"

	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// MaxPoints caps a single submission so running totals stay far from overflow
const MaxPoints int64 = 1_000_000

// Errors
var (
	ErrNegativePoints = errors.New("points must not be negative")
	ErrPointsTooLarge = errors.New("points exceed the per-game maximum")
)

// Service records finished games as score events
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	metrics *metrics.Manager
}

// New creates a new scores Service. metrics may be nil.
func New(storage storage.Storage, clock clock.Clock, metrics *metrics.Manager) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		metrics: metrics,
	}
}

// Submit appends a score event for the player. The store bumps the player's
// running total and games played in the same operation.
func (s *Service) Submit(ctx context.Context, playerID model.PlayerID, points int64, challenge bool) (*model.ScoreEvent, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}
	if points > MaxPoints {
		return nil, ErrPointsTooLarge
	}

	event := &model.ScoreEvent{
		ID:        model.ScoreEventID(model.NewID("s_")),
		PlayerID:  playerID,
		Points:    points,
		Challenge: challenge,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.AppendScoreEvent(ctx, event); err != nil {
		return nil, err
	}

	s.metrics.IncScoreSubmission(challenge)
	return event, nil
}

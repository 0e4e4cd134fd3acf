package storage

import (
	"context"
	"time"

	"github.com/mcoot/wordquiz/internal/model"
)

// ScoreQuery selects raw score events for aggregation
type ScoreQuery struct {
	// Since, when non-zero, keeps only events with CreatedAt >= Since
	Since time.Time
	// ChallengeOnly keeps only challenge-flagged events
	ChallengeOnly bool
}

// Matches reports whether an event satisfies the query
func (q ScoreQuery) Matches(e *model.ScoreEvent) bool {
	if q.ChallengeOnly && !e.Challenge {
		return false
	}
	if !q.Since.IsZero() && e.CreatedAt.Before(q.Since) {
		return false
	}
	return true
}

// Storage defines the interface for data persistence.
// Implementations return model.ErrPlayerNotFound (and friends) for missing records
// and wrap connectivity or query failures so callers can map them to model.ErrDataUnavailable.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayers(ctx context.Context, ids []model.PlayerID) (map[model.PlayerID]*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	SetPlayerActive(ctx context.Context, id model.PlayerID, active bool) error
	// DeletePlayer removes the player, its credentials and its score events
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Player credential operations
	SavePlayerCredentials(ctx context.Context, creds *model.PlayerCredentials) error
	GetPlayerCredentialsByEmail(ctx context.Context, email string) (*model.PlayerCredentials, error)

	// Admin operations
	SaveAdmin(ctx context.Context, admin *model.Admin) error
	GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	CountAdmins(ctx context.Context) (int, error)

	// Score operations
	// AppendScoreEvent stores the event and bumps the player's total score and games played
	AppendScoreEvent(ctx context.Context, event *model.ScoreEvent) error
	ListScoreEvents(ctx context.Context, q ScoreQuery) ([]*model.ScoreEvent, error)

	// Subject operations
	SaveSubject(ctx context.Context, subject *model.Subject) error
	GetSubject(ctx context.Context, id model.SubjectID) (*model.Subject, error)
	ListSubjects(ctx context.Context) ([]*model.Subject, error)
	// DeleteSubject removes the subject and its words
	DeleteSubject(ctx context.Context, id model.SubjectID) error

	// Word operations
	SaveWord(ctx context.Context, word *model.Word) error
	GetWord(ctx context.Context, id model.WordID) (*model.Word, error)
	ListWords(ctx context.Context, subjectID model.SubjectID) ([]*model.Word, error)
	DeleteWord(ctx context.Context, id model.WordID) error
}

package players

import (
	"context"
	"log/slog"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// Service exposes player account management to administrators
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new players Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns every player, newest first
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// Get returns a single player
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// SetActive activates or deactivates a player. A deactivated player's
// existing sessions stop resolving on their next request.
func (s *Service) SetActive(ctx context.Context, actor model.AdminID, id model.PlayerID, active bool) (*model.Player, error) {
	if err := s.storage.SetPlayerActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.logger.Info("player status changed",
		slog.String("admin_id", string(actor)),
		slog.String("player_id", string(id)),
		slog.Bool("is_active", active),
	)
	return s.storage.GetPlayer(ctx, id)
}

// Delete permanently removes a player along with their credentials and score events
func (s *Service) Delete(ctx context.Context, actor model.AdminID, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player deleted",
		slog.String("admin_id", string(actor)),
		slog.String("player_id", string(id)),
	)
	return nil
}

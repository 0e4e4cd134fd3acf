package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrBootstrapClosed    = errors.New("admin bootstrap is closed")
	ErrInvalidInput       = model.ErrInvalidInput
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

// Session is a freshly issued token and the principal it carries
type Session struct {
	Token     string
	Principal model.Principal
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	PlayerSessionTTL time.Duration
	AdminSessionTTL  time.Duration
	// DisableBootstrap turns off creating the first admin over the API.
	// Negative so the zero Config keeps bootstrap available.
	DisableBootstrap bool
	BcryptCost       int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		PlayerSessionTTL: 7 * 24 * time.Hour,
		AdminSessionTTL:  8 * time.Hour,
		BcryptCost:       bcrypt.DefaultCost,
	}
}

// Service handles authentication and session resolution.
// Sessions are stateless: a token is valid until it expires, but every
// resolution re-reads the record so deleted or deactivated accounts lose access.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	codec   *TokenCodec
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, codec *TokenCodec, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.PlayerSessionTTL == 0 {
		cfg.PlayerSessionTTL = defaults.PlayerSessionTTL
	}
	if cfg.AdminSessionTTL == 0 {
		cfg.AdminSessionTTL = defaults.AdminSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage: storage,
		clock:   clock,
		codec:   codec,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterPlayer creates a player account and signs the player in
func (s *Service) RegisterPlayer(ctx context.Context, email, phone, displayName, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	_, err = s.storage.GetPlayerCredentialsByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrEmailNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          model.PlayerID(model.NewID("p_")),
		Email:       email,
		Phone:       strings.TrimSpace(phone),
		DisplayName: displayName,
		IsActive:    true,
		CreatedAt:   now,
	}
	creds := &model.PlayerCredentials{
		PlayerID:     player.ID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SavePlayerCredentials(ctx, creds); err != nil {
		// Lost a race for the email; drop the orphaned player record.
		_ = s.storage.DeletePlayer(ctx, player.ID)
		if errors.Is(err, model.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.logger.Info("player registered", "player_id", player.ID)
	return s.issue(model.PlayerPrincipalFromRecord(player), string(player.ID), s.cfg.PlayerSessionTTL)
}

// Login authenticates a player by email and password
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	creds, err := s.storage.GetPlayerCredentialsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrEmailNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, creds.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !player.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issue(model.PlayerPrincipalFromRecord(player), string(player.ID), s.cfg.PlayerSessionTTL)
}

// AdminLogin authenticates an administrator by email and password
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.storage.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(adminPrincipal(admin), string(admin.ID), s.cfg.AdminSessionTTL)
}

// BootstrapAdmin creates the first administrator. It is only available while
// bootstrap is enabled and no administrator exists yet.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password string) (*Session, error) {
	if s.cfg.DisableBootstrap {
		return nil, ErrBootstrapClosed
	}

	count, err := s.storage.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrBootstrapClosed
	}

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		ID:           model.AdminID(model.NewID("a_")),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.SaveAdmin(ctx, admin); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, ErrBootstrapClosed
		}
		return nil, err
	}

	s.logger.Info("admin bootstrapped", "admin_id", admin.ID)
	return s.issue(adminPrincipal(admin), string(admin.ID), s.cfg.AdminSessionTTL)
}

// Resolve turns a raw token into a principal. It never fails: anything that
// does not lead to a live, active record resolves to Anonymous.
func (s *Service) Resolve(ctx context.Context, token string) model.Principal {
	if token == "" {
		return model.Anonymous{}
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return model.Anonymous{}
	}

	switch claims.Kind {
	case model.KindPlayer:
		player, err := s.storage.GetPlayer(ctx, model.PlayerID(claims.Subject))
		if err != nil {
			s.logLookupFailure(err, model.ErrPlayerNotFound, claims)
			return model.Anonymous{}
		}
		if !player.IsActive {
			return model.Anonymous{}
		}
		return model.PlayerPrincipalFromRecord(player)

	case model.KindAdmin:
		admin, err := s.storage.GetAdmin(ctx, model.AdminID(claims.Subject))
		if err != nil {
			s.logLookupFailure(err, model.ErrAdminNotFound, claims)
			return model.Anonymous{}
		}
		return adminPrincipal(admin)
	}

	return model.Anonymous{}
}

func (s *Service) logLookupFailure(err, notFound error, claims TokenClaims) {
	if errors.Is(err, notFound) {
		return
	}
	s.logger.Warn("session lookup failed, treating request as anonymous",
		"kind", claims.Kind,
		"subject", claims.Subject,
		"error", err,
	)
}

func (s *Service) issue(principal model.Principal, id string, ttl time.Duration) (*Session, error) {
	token, claims, err := s.codec.IssueClaims(principal.Kind(), id, ttl)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		Principal: principal,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func adminPrincipal(a *model.Admin) model.AdminPrincipal {
	return model.AdminPrincipal{ID: a.ID, Email: a.Email}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email address is not valid", ErrInvalidInput)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

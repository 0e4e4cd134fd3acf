package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordquiz/internal/dependencies/mocks"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage/memory"
	"github.com/mcoot/wordquiz/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	codec   *TokenCodec
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	codec, err := NewTokenCodec(testSecret, s.clock)
	s.Require().NoError(err)
	s.codec = codec

	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	s.service = New(s.storage, s.clock, s.codec, cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(email string) *Session {
	session, err := s.service.RegisterPlayer(s.ctx, email, "", "Alice", "password123")
	s.Require().NoError(err)
	return session
}

func (s *ServiceSuite) playerID(session *Session) model.PlayerID {
	p, ok := session.Principal.(model.PlayerPrincipal)
	s.Require().True(ok, "expected a player principal, got %T", session.Principal)
	return p.ID
}

// RegisterPlayer tests

func (s *ServiceSuite) TestSessionExpiryMatchesTokenExpiry() {
	s.clock.Set(time.Date(2024, 1, 1, 12, 0, 0, 999_000_000, time.UTC))

	session := s.register("alice@example.com")

	claims, err := s.codec.Verify(session.Token)
	s.Require().NoError(err)
	s.True(claims.ExpiresAt.Equal(session.ExpiresAt), "cookie %s, token %s", session.ExpiresAt, claims.ExpiresAt)
	s.True(session.ExpiresAt.Before(s.clock.Now().Add(DefaultConfig().PlayerSessionTTL)))
}

func (s *ServiceSuite) TestRegisterPlayerSucceeds() {
	session, err := s.service.RegisterPlayer(s.ctx, "Alice@Example.com", "+15550100", "Alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(model.KindPlayer, session.Principal.Kind())
	s.True(s.clock.Now().Add(7*24*time.Hour).Equal(session.ExpiresAt))

	player, err := s.storage.GetPlayer(s.ctx, s.playerID(session))
	s.Require().NoError(err)
	s.Equal("alice@example.com", player.Email)
	s.Equal("+15550100", player.Phone)
	s.True(player.IsActive)
}

func (s *ServiceSuite) TestRegisterPlayerHashesPassword() {
	s.register("alice@example.com")

	creds, err := s.storage.GetPlayerCredentialsByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.NotEqual("password123", creds.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("password123")))
}

func (s *ServiceSuite) TestRegisterPlayerDuplicateEmail() {
	s.register("alice@example.com")

	_, err := s.service.RegisterPlayer(s.ctx, "ALICE@example.com", "", "Other", "password456")
	s.ErrorIs(err, ErrEmailExists)
}

func (s *ServiceSuite) TestRegisterPlayerValidation() {
	cases := []struct {
		name, email, display, password string
	}{
		{"bad email", "not-an-email", "Alice", "password123"},
		{"blank display name", "alice@example.com", "  ", "password123"},
		{"short password", "alice@example.com", "Alice", "short"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.RegisterPlayer(s.ctx, tc.email, "", tc.display, tc.password)
			s.ErrorIs(err, ErrInvalidInput)
		})
	}
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered := s.register("alice@example.com")

	session, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(s.playerID(registered), s.playerID(session))
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	s.register("alice@example.com")

	_, err := s.service.Login(s.ctx, "alice@example.com", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownEmail() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginInactivePlayer() {
	session := s.register("alice@example.com")
	s.Require().NoError(s.storage.SetPlayerActive(s.ctx, s.playerID(session), false))

	_, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Admin tests

func (s *ServiceSuite) TestBootstrapAdminOnce() {
	session, err := s.service.BootstrapAdmin(s.ctx, "root@example.com", "adminpass1")
	s.Require().NoError(err)
	s.Equal(model.KindAdmin, session.Principal.Kind())
	s.True(s.clock.Now().Add(8*time.Hour).Equal(session.ExpiresAt))

	_, err = s.service.BootstrapAdmin(s.ctx, "second@example.com", "adminpass2")
	s.ErrorIs(err, ErrBootstrapClosed)
}

func (s *ServiceSuite) TestBootstrapAdminDisabled() {
	cfg := DefaultConfig()
	cfg.DisableBootstrap = true
	service := New(s.storage, s.clock, s.codec, cfg, testutil.NopLogger())

	_, err := service.BootstrapAdmin(s.ctx, "root@example.com", "adminpass1")
	s.ErrorIs(err, ErrBootstrapClosed)
}

func (s *ServiceSuite) TestAdminLogin() {
	_, err := s.service.BootstrapAdmin(s.ctx, "root@example.com", "adminpass1")
	s.Require().NoError(err)

	session, err := s.service.AdminLogin(s.ctx, "ROOT@example.com", "adminpass1")
	s.Require().NoError(err)
	admin, ok := session.Principal.(model.AdminPrincipal)
	s.Require().True(ok)
	s.Equal("root@example.com", admin.Email)

	_, err = s.service.AdminLogin(s.ctx, "root@example.com", "wrong-password")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestPlayerCredentialsDoNotOpenAdminLogin() {
	s.register("alice@example.com")

	_, err := s.service.AdminLogin(s.ctx, "alice@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Resolve tests

func (s *ServiceSuite) TestResolveEmptyTokenIsAnonymous() {
	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, ""))
}

func (s *ServiceSuite) TestResolveGarbageIsAnonymous() {
	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, "garbage"))
}

func (s *ServiceSuite) TestResolvePlayer() {
	session := s.register("alice@example.com")

	principal := s.service.Resolve(s.ctx, session.Token)
	player, ok := principal.(model.PlayerPrincipal)
	s.Require().True(ok)
	s.Equal(s.playerID(session), player.ID)
	s.Equal("Alice", player.DisplayName)
	s.True(player.IsActive)
}

func (s *ServiceSuite) TestResolveAdmin() {
	session, err := s.service.BootstrapAdmin(s.ctx, "root@example.com", "adminpass1")
	s.Require().NoError(err)

	principal := s.service.Resolve(s.ctx, session.Token)
	s.Equal(model.KindAdmin, principal.Kind())
}

func (s *ServiceSuite) TestResolveExpiredToken() {
	session := s.register("alice@example.com")

	s.clock.Advance(7 * 24 * time.Hour)
	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, session.Token))
}

func (s *ServiceSuite) TestResolveDeletedPlayer() {
	session := s.register("alice@example.com")
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, s.playerID(session)))

	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, session.Token))
}

func (s *ServiceSuite) TestResolveDeactivatedPlayer() {
	session := s.register("alice@example.com")
	s.Require().NoError(s.storage.SetPlayerActive(s.ctx, s.playerID(session), false))

	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, session.Token))

	s.Require().NoError(s.storage.SetPlayerActive(s.ctx, s.playerID(session), true))
	s.Equal(model.KindPlayer, s.service.Resolve(s.ctx, session.Token).Kind())
}

func (s *ServiceSuite) TestResolveTokenForUnknownAdmin() {
	token, err := s.codec.Issue(model.KindAdmin, "a_missing", time.Hour)
	s.Require().NoError(err)

	s.Equal(model.Anonymous{}, s.service.Resolve(s.ctx, token))
}

func (s *ServiceSuite) TestPlayerTokenNeverResolvesToAdmin() {
	session := s.register("alice@example.com")

	// Even if an admin shares the id, the kind claim selects the table.
	s.Require().NoError(s.storage.SaveAdmin(s.ctx, &model.Admin{
		ID:    model.AdminID(s.playerID(session)),
		Email: "root@example.com",
	}))

	s.Equal(model.KindPlayer, s.service.Resolve(s.ctx, session.Token).Kind())
}

type unavailableStorage struct {
	*memory.Storage
}

func (u unavailableStorage) GetPlayer(context.Context, model.PlayerID) (*model.Player, error) {
	return nil, errors.New("connection refused")
}

func (s *ServiceSuite) TestResolveStoreFailureIsAnonymous() {
	session := s.register("alice@example.com")

	service := New(unavailableStorage{s.storage}, s.clock, s.codec, DefaultConfig(), testutil.NopLogger())
	s.Equal(model.Anonymous{}, service.Resolve(s.ctx, session.Token))
}

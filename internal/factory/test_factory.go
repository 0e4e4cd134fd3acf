package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordquiz/internal/dependencies/mocks"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/auth"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
	"github.com/mcoot/wordquiz/internal/storage/memory"
	"github.com/mcoot/wordquiz/internal/testutil"
)

// TestAuthSecret signs tokens in test apps
const TestAuthSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock starts on Wednesday 2024-01-10 12:00 UTC.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app, err := newWithDependencies(store, mockClock, mockRandom, TestAuthSecret, authCfg,
		leaderboard.DefaultConfig(), metrics.NewManager(), testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// RegisterPlayer registers a player with a fixed test password
func (t *TestApp) RegisterPlayer(ctx context.Context, email, displayName string) (*auth.Session, model.PlayerID, error) {
	session, err := t.AuthService.RegisterPlayer(ctx, email, "", displayName, TestPassword)
	if err != nil {
		return nil, "", err
	}
	return session, session.Principal.(model.PlayerPrincipal).ID, nil
}

// TestPassword is the password RegisterPlayer uses
const TestPassword = "correct-horse"

// LoadTestContent adds a small subject for play
func (t *TestApp) LoadTestContent(ctx context.Context) (*model.Subject, error) {
	subject, err := t.ContentService.CreateSubject(ctx, "Animals")
	if err != nil {
		return nil, err
	}
	for _, word := range []string{"badger", "heron", "otter", "stoat"} {
		if _, err := t.ContentService.AddWord(ctx, subject.ID, word, ""); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

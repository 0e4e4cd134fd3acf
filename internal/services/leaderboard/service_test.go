package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordquiz/internal/dependencies/mocks"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
	"github.com/mcoot/wordquiz/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	seq     int
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	// Wednesday
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), nil)
	s.ctx = context.Background()
	s.seq = 0
}

func (s *ServiceSuite) addPlayer(id model.PlayerID) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:          id,
		DisplayName: "Player " + string(id),
		IsActive:    true,
		CreatedAt:   s.clock.Now(),
	}))
}

func (s *ServiceSuite) score(id model.PlayerID, points int64, challenge bool, at time.Time) {
	s.seq++
	s.Require().NoError(s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{
		ID:        model.ScoreEventID(fmt.Sprintf("e%d", s.seq)),
		PlayerID:  id,
		Points:    points,
		Challenge: challenge,
		CreatedAt: at,
	}))
}

func (s *ServiceSuite) ids(entries []model.LeaderboardEntry) []model.PlayerID {
	out := make([]model.PlayerID, len(entries))
	for i, e := range entries {
		out[i] = e.PlayerID
	}
	return out
}

func (s *ServiceSuite) ranks(entries []model.LeaderboardEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

// Validation tests

func (s *ServiceSuite) TestRankRejectsNonPositiveLimit() {
	for _, limit := range []int{0, -1} {
		_, err := s.service.Rank(s.ctx, model.WindowWeekly, limit)
		s.ErrorIs(err, ErrInvalidLimit)
	}
}

func (s *ServiceSuite) TestRankRejectsUnknownWindow() {
	_, err := s.service.Rank(s.ctx, model.Window("yearly"), 10)
	s.ErrorIs(err, model.ErrInvalidWindow)
}

func (s *ServiceSuite) TestRankEmpty() {
	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)
}

// Window tests

func (s *ServiceSuite) TestWeeklyStartsMondayMidnight() {
	s.addPlayer("a")
	s.addPlayer("b")
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	s.score("a", 10, false, monday)
	s.score("b", 99, false, monday.Add(-time.Second))

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"a"}, s.ids(entries))
}

func (s *ServiceSuite) TestWeeklyWindowOnSundayAndMonday() {
	cases := []struct {
		name  string
		now   time.Time
		start time.Time
	}{
		{"sunday evening", time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"monday midnight", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"across year boundary", time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.clock.Set(tc.now)
			q, err := s.service.Query(model.WindowWeekly)
			s.Require().NoError(err)
			s.True(tc.start.Equal(q.Since), "want %s got %s", tc.start, q.Since)
			s.False(q.ChallengeOnly)
		})
	}
}

func (s *ServiceSuite) TestMonthlyStartsFirstOfMonth() {
	s.addPlayer("a")
	s.addPlayer("b")
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.score("a", 1, true, first)
	s.score("b", 50, false, first.Add(-time.Second))

	entries, err := s.service.Rank(s.ctx, model.WindowMonthly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"a"}, s.ids(entries))
}

func (s *ServiceSuite) TestChallengeWindowIsUnboundedAndFlagged() {
	s.addPlayer("a")
	s.addPlayer("b")
	s.score("a", 5, true, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))
	s.score("a", 5, true, s.clock.Now())
	s.score("b", 100, false, s.clock.Now())

	entries, err := s.service.Rank(s.ctx, model.WindowChallenge, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.PlayerID("a"), entries[0].PlayerID)
	s.Equal(int64(10), entries[0].Score)
}

func (s *ServiceSuite) TestWindowsFollowConfiguredLocation() {
	zone := time.FixedZone("UTC+10", 10*60*60)
	service := New(s.storage, s.clock, Config{Location: zone}, nil)
	// Monday 06:00 in UTC+10, still Sunday in UTC
	s.clock.Set(time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC))

	q, err := service.Query(model.WindowWeekly)
	s.Require().NoError(err)
	s.True(time.Date(2024, 1, 7, 14, 0, 0, 0, time.UTC).Equal(q.Since), "got %s", q.Since)
}

// Ordering tests

func (s *ServiceSuite) TestCompetitionRanking() {
	base := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	for _, id := range []model.PlayerID{"a", "b", "c", "d"} {
		s.addPlayer(id)
	}
	s.score("a", 100, false, base)
	s.score("c", 80, false, base.Add(2*time.Hour))
	s.score("b", 80, false, base.Add(time.Hour))
	s.score("d", 60, false, base)

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"a", "b", "c", "d"}, s.ids(entries))
	s.Equal([]int{1, 2, 2, 4}, s.ranks(entries))
	s.Equal("Player a", entries[0].DisplayName)
}

func (s *ServiceSuite) TestTieOnScoreAndTimeFallsBackToPlayerID() {
	at := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	s.addPlayer("zed")
	s.addPlayer("amy")
	s.score("zed", 10, false, at)
	s.score("amy", 10, false, at)

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"amy", "zed"}, s.ids(entries))
	s.Equal([]int{1, 1}, s.ranks(entries))
}

func (s *ServiceSuite) TestScoresSumWithinWindow() {
	s.addPlayer("a")
	s.score("a", 3, false, s.clock.Now().Add(-time.Hour))
	s.score("a", 4, true, s.clock.Now())
	s.score("a", 0, false, s.clock.Now())

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(int64(7), entries[0].Score)
}

func (s *ServiceSuite) TestChallengeEventsCountTowardWeeklyToo() {
	s.addPlayer("a")
	s.score("a", 10, true, s.clock.Now().Add(-2*time.Hour))
	s.score("a", 20, true, s.clock.Now().Add(-time.Hour))

	weekly, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Require().Len(weekly, 1)
	s.Equal(int64(30), weekly[0].Score)

	challenge, err := s.service.Rank(s.ctx, model.WindowChallenge, 10)
	s.Require().NoError(err)
	s.Require().Len(challenge, 1)
	s.Equal(int64(30), challenge[0].Score)
}

func (s *ServiceSuite) TestHugeTotalsSaturateInsteadOfWrapping() {
	s.addPlayer("a")
	s.addPlayer("b")
	s.score("a", math.MaxInt64, false, s.clock.Now().Add(-time.Hour))
	s.score("a", 1, false, s.clock.Now())
	s.score("b", 5, false, s.clock.Now())

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"a", "b"}, s.ids(entries))
	s.Equal(int64(math.MaxInt64), entries[0].Score)
	s.Equal(1, entries[0].Rank)
}

// Limit tests

func (s *ServiceSuite) TestLimitTruncates() {
	for i := range 5 {
		id := model.PlayerID(fmt.Sprintf("p%d", i))
		s.addPlayer(id)
		s.score(id, int64(10*(i+1)), false, s.clock.Now())
	}

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 2)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p4", "p3"}, s.ids(entries))
}

func (s *ServiceSuite) TestHugeLimitIsClamped() {
	s.addPlayer("a")
	s.score("a", 1, false, s.clock.Now())

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 1_000_000)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

// Membership tests

func (s *ServiceSuite) TestInactiveAndDeletedPlayersExcluded() {
	for _, id := range []model.PlayerID{"a", "b", "c"} {
		s.addPlayer(id)
	}
	s.score("a", 30, false, s.clock.Now())
	s.score("b", 20, false, s.clock.Now())
	s.score("c", 10, false, s.clock.Now())

	s.Require().NoError(s.storage.SetPlayerActive(s.ctx, "a", false))
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "b"))

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, 10)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"c"}, s.ids(entries))
	s.Equal([]int{1}, s.ranks(entries))
}

func (s *ServiceSuite) TestPlayerStanding() {
	for _, id := range []model.PlayerID{"a", "b", "c"} {
		s.addPlayer(id)
	}
	s.score("a", 30, false, s.clock.Now())
	s.score("b", 30, false, s.clock.Now())
	s.score("c", 10, false, s.clock.Now())

	entry, err := s.service.PlayerStanding(s.ctx, model.WindowWeekly, "c")
	s.Require().NoError(err)
	s.Equal(3, entry.Rank)
	s.Equal(int64(10), entry.Score)

	_, err = s.service.PlayerStanding(s.ctx, model.WindowChallenge, "c")
	s.ErrorIs(err, ErrNotRanked)
}

// Failure tests

type brokenStorage struct {
	*memory.Storage
}

func (b brokenStorage) ListScoreEvents(context.Context, storage.ScoreQuery) ([]*model.ScoreEvent, error) {
	return nil, errors.New("i/o timeout")
}

func (s *ServiceSuite) TestStoreFailureIsDataUnavailable() {
	service := New(brokenStorage{s.storage}, s.clock, DefaultConfig(), nil)

	entries, err := service.Rank(s.ctx, model.WindowWeekly, 10)
	s.ErrorIs(err, model.ErrDataUnavailable)
	s.ErrorContains(err, "i/o timeout")
	s.Nil(entries)
}

// Property tests

func (s *ServiceSuite) TestGeneratedDataKeepsOrderingInvariants() {
	rng := rand.New(rand.NewSource(42))
	weekStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	for i := range 40 {
		id := model.PlayerID(fmt.Sprintf("p%02d", i))
		s.addPlayer(id)
		for range rng.Intn(4) {
			at := weekStart.Add(time.Duration(rng.Intn(48)) * time.Hour)
			s.score(id, int64(rng.Intn(5)*10), rng.Intn(2) == 0, at)
		}
	}

	entries, err := s.service.Rank(s.ctx, model.WindowWeekly, MaxLimit)
	s.Require().NoError(err)

	again, err := s.service.Rank(s.ctx, model.WindowWeekly, MaxLimit)
	s.Require().NoError(err)
	s.Equal(entries, again, "ranking must be deterministic")

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		s.GreaterOrEqual(prev.Score, cur.Score)
		if prev.Score == cur.Score {
			s.Equal(prev.Rank, cur.Rank)
		} else {
			s.Equal(i+1, cur.Rank)
		}
	}
	if len(entries) > 0 {
		s.Equal(1, entries[0].Rank)
	}
}

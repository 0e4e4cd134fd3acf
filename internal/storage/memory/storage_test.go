package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) savePlayer(id model.PlayerID) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:          id,
		DisplayName: string(id),
		IsActive:    true,
		CreatedAt:   s.now,
	}))
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		IsActive:    true,
		CreatedAt:   s.now,
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(retrieved.IsActive)
}

func (s *StorageSuite) TestGetPlayerReturnsCopy() {
	s.savePlayer("player-1")

	retrieved, _ := s.storage.GetPlayer(s.ctx, "player-1")
	retrieved.DisplayName = "Mallory"

	again, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("player-1", again.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayersSkipsMissing() {
	s.savePlayer("player-1")

	players, err := s.storage.GetPlayers(s.ctx, []model.PlayerID{"player-1", "ghost"})
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Contains(players, model.PlayerID("player-1"))
}

func (s *StorageSuite) TestSetPlayerActive() {
	s.savePlayer("player-1")

	s.Require().NoError(s.storage.SetPlayerActive(s.ctx, "player-1", false))

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.False(player.IsActive)
}

func (s *StorageSuite) TestSetPlayerActiveNotFound() {
	err := s.storage.SetPlayerActive(s.ctx, "ghost", false)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayerRemovesCredentialsAndEvents() {
	s.savePlayer("player-1")
	s.savePlayer("player-2")
	s.Require().NoError(s.storage.SavePlayerCredentials(s.ctx, &model.PlayerCredentials{
		PlayerID: "player-1", Email: "alice@example.com", PasswordHash: "hash",
	}))
	s.Require().NoError(s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "e1", PlayerID: "player-1", Points: 5, CreatedAt: s.now}))
	s.Require().NoError(s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "e2", PlayerID: "player-2", Points: 7, CreatedAt: s.now}))

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerCredentialsByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrEmailNotFound)

	events, err := s.storage.ListScoreEvents(s.ctx, storage.ScoreQuery{})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(model.PlayerID("player-2"), events[0].PlayerID)
}

func (s *StorageSuite) TestDeletePlayerNotFound() {
	err := s.storage.DeletePlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Credential tests

func (s *StorageSuite) TestCredentialsEmailIsCaseInsensitive() {
	s.Require().NoError(s.storage.SavePlayerCredentials(s.ctx, &model.PlayerCredentials{
		PlayerID: "player-1", Email: "Alice@Example.com", PasswordHash: "hash",
	}))

	creds, err := s.storage.GetPlayerCredentialsByEmail(s.ctx, "ALICE@example.COM")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), creds.PlayerID)
	s.Equal("alice@example.com", creds.Email)
}

func (s *StorageSuite) TestCredentialsDuplicateEmail() {
	s.Require().NoError(s.storage.SavePlayerCredentials(s.ctx, &model.PlayerCredentials{
		PlayerID: "player-1", Email: "alice@example.com",
	}))

	err := s.storage.SavePlayerCredentials(s.ctx, &model.PlayerCredentials{
		PlayerID: "player-2", Email: "alice@example.com",
	})
	s.ErrorIs(err, model.ErrDuplicate)
}

// Admin tests

func (s *StorageSuite) TestAdminLifecycle() {
	count, err := s.storage.CountAdmins(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	admin := &model.Admin{ID: "admin-1", Email: "Root@example.com", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveAdmin(s.ctx, admin))

	byEmail, err := s.storage.GetAdminByEmail(s.ctx, "root@example.com")
	s.Require().NoError(err)
	s.Equal(admin.ID, byEmail.ID)

	byID, err := s.storage.GetAdmin(s.ctx, "admin-1")
	s.Require().NoError(err)
	s.Equal("root@example.com", byID.Email)

	count, _ = s.storage.CountAdmins(s.ctx)
	s.Equal(1, count)

	_, err = s.storage.GetAdmin(s.ctx, "admin-2")
	s.ErrorIs(err, model.ErrAdminNotFound)
}

// Score tests

func (s *StorageSuite) TestAppendScoreEventUpdatesAccumulator() {
	s.savePlayer("player-1")

	s.Require().NoError(s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "e1", PlayerID: "player-1", Points: 10, CreatedAt: s.now}))
	s.Require().NoError(s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "e2", PlayerID: "player-1", Points: 20, Challenge: true, CreatedAt: s.now}))

	player, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(int64(30), player.TotalScore)
	s.Equal(2, player.GamesPlayed)
}

func (s *StorageSuite) TestAppendScoreEventUnknownPlayer() {
	err := s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "e1", PlayerID: "ghost", Points: 10})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListScoreEventsFilters() {
	s.savePlayer("player-1")
	_ = s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "old", PlayerID: "player-1", Points: 1, Challenge: true, CreatedAt: s.now.Add(-48 * time.Hour)})
	_ = s.storage.AppendScoreEvent(s.ctx, &model.ScoreEvent{ID: "new", PlayerID: "player-1", Points: 2, CreatedAt: s.now})

	recent, err := s.storage.ListScoreEvents(s.ctx, storage.ScoreQuery{Since: s.now.Add(-time.Hour)})
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(model.ScoreEventID("new"), recent[0].ID)

	challenge, err := s.storage.ListScoreEvents(s.ctx, storage.ScoreQuery{ChallengeOnly: true})
	s.Require().NoError(err)
	s.Require().Len(challenge, 1)
	s.Equal(model.ScoreEventID("old"), challenge[0].ID)
}

// Content tests

func (s *StorageSuite) TestSubjectAndWords() {
	s.Require().NoError(s.storage.SaveSubject(s.ctx, &model.Subject{ID: "sub-1", Name: "Animals"}))
	s.Require().NoError(s.storage.SaveWord(s.ctx, &model.Word{ID: "w2", SubjectID: "sub-1", Text: "zebra"}))
	s.Require().NoError(s.storage.SaveWord(s.ctx, &model.Word{ID: "w1", SubjectID: "sub-1", Text: "ant"}))

	words, err := s.storage.ListWords(s.ctx, "sub-1")
	s.Require().NoError(err)
	s.Require().Len(words, 2)
	s.Equal("ant", words[0].Text)

	s.Require().NoError(s.storage.DeleteSubject(s.ctx, "sub-1"))
	_, err = s.storage.GetWord(s.ctx, "w1")
	s.ErrorIs(err, model.ErrWordNotFound)
}

func (s *StorageSuite) TestSaveWordRequiresSubject() {
	err := s.storage.SaveWord(s.ctx, &model.Word{ID: "w1", SubjectID: "ghost", Text: "ant"})
	s.ErrorIs(err, model.ErrSubjectNotFound)
}

func (s *StorageSuite) TestDuplicateSubjectName() {
	s.Require().NoError(s.storage.SaveSubject(s.ctx, &model.Subject{ID: "sub-1", Name: "Animals"}))
	err := s.storage.SaveSubject(s.ctx, &model.Subject{ID: "sub-2", Name: "animals"})
	s.ErrorIs(err, model.ErrDuplicate)
}

func (s *StorageSuite) TestDeleteWordNotFound() {
	err := s.storage.DeleteWord(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrWordNotFound)
}

package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordquiz/internal/dependencies/mocks"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, clk, s.random)
	s.ctx = context.Background()
}

func (s *ServiceSuite) subject(name string) *model.Subject {
	subject, err := s.service.CreateSubject(s.ctx, name)
	s.Require().NoError(err)
	return subject
}

// Subject tests

func (s *ServiceSuite) TestCreateSubject() {
	subject := s.subject("  Animals ")
	s.Equal("Animals", subject.Name)

	fetched, err := s.service.GetSubject(s.ctx, subject.ID)
	s.Require().NoError(err)
	s.Equal(subject.ID, fetched.ID)
}

func (s *ServiceSuite) TestCreateSubjectDuplicate() {
	s.subject("Animals")

	_, err := s.service.CreateSubject(s.ctx, "animals")
	s.ErrorIs(err, ErrSubjectExists)
}

func (s *ServiceSuite) TestCreateSubjectBlankName() {
	_, err := s.service.CreateSubject(s.ctx, "   ")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestDeleteSubjectCascades() {
	subject := s.subject("Animals")
	word, err := s.service.AddWord(s.ctx, subject.ID, "otter", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteSubject(s.ctx, subject.ID))

	_, err = s.storage.GetWord(s.ctx, word.ID)
	s.ErrorIs(err, model.ErrWordNotFound)
}

// Word tests

func (s *ServiceSuite) TestAddAndListWords() {
	subject := s.subject("Animals")
	_, _ = s.service.AddWord(s.ctx, subject.ID, "otter", "it swims")
	_, _ = s.service.AddWord(s.ctx, subject.ID, "badger", "")

	words, err := s.service.ListWords(s.ctx, subject.ID)
	s.Require().NoError(err)
	s.Require().Len(words, 2)
	s.Equal("badger", words[0].Text)
	s.Equal("it swims", words[1].Hint)
}

func (s *ServiceSuite) TestAddWordUnknownSubject() {
	_, err := s.service.AddWord(s.ctx, "ghost", "otter", "")
	s.ErrorIs(err, model.ErrSubjectNotFound)
}

func (s *ServiceSuite) TestListWordsUnknownSubject() {
	_, err := s.service.ListWords(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrSubjectNotFound)
}

func (s *ServiceSuite) TestDeleteWordMissing() {
	err := s.service.DeleteWord(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrWordNotFound)
}

func (s *ServiceSuite) TestRandomWordUsesRandomSource() {
	subject := s.subject("Animals")
	_, _ = s.service.AddWord(s.ctx, subject.ID, "ant", "")
	_, _ = s.service.AddWord(s.ctx, subject.ID, "bee", "")
	_, _ = s.service.AddWord(s.ctx, subject.ID, "cat", "")

	s.random.QueueIntn(2, 0)

	word, err := s.service.RandomWord(s.ctx, subject.ID)
	s.Require().NoError(err)
	s.Equal("cat", word.Text)

	word, err = s.service.RandomWord(s.ctx, subject.ID)
	s.Require().NoError(err)
	s.Equal("ant", word.Text)
}

func (s *ServiceSuite) TestRandomWordEmptySubject() {
	subject := s.subject("Empty")

	_, err := s.service.RandomWord(s.ctx, subject.ID)
	s.ErrorIs(err, model.ErrNoWords)
}

// LoadFromFile tests

func (s *ServiceSuite) writeFile(contents string) string {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func (s *ServiceSuite) TestLoadFromFileCreatesSubject() {
	path := s.writeFile("# animals\notter\tit swims\n\nbadger\nOtter\n")

	subject, added, err := s.service.LoadFromFile(s.ctx, "Animals", path)
	s.Require().NoError(err)
	s.Equal("Animals", subject.Name)
	s.Equal(2, added)

	words, _ := s.service.ListWords(s.ctx, subject.ID)
	s.Require().Len(words, 2)
	s.Equal("it swims", words[1].Hint)
}

func (s *ServiceSuite) TestLoadFromFileReusesSubjectAndSkipsExisting() {
	existing := s.subject("Animals")
	_, _ = s.service.AddWord(s.ctx, existing.ID, "otter", "")

	subject, added, err := s.service.LoadFromFile(s.ctx, "animals", s.writeFile("otter\nbadger\n"))
	s.Require().NoError(err)
	s.Equal(existing.ID, subject.ID)
	s.Equal(1, added)
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	_, _, err := s.service.LoadFromFile(s.ctx, "Animals", filepath.Join(s.T().TempDir(), "nope.txt"))
	s.Error(err)
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.Player
	credentials map[model.PlayerID]*model.PlayerCredentials
	emailIndex  map[string]model.PlayerID
	admins      map[model.AdminID]*model.Admin
	adminEmails map[string]model.AdminID
	events      []*model.ScoreEvent
	subjects    map[model.SubjectID]*model.Subject
	words       map[model.WordID]*model.Word
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.Player),
		credentials: make(map[model.PlayerID]*model.PlayerCredentials),
		emailIndex:  make(map[string]model.PlayerID),
		admins:      make(map[model.AdminID]*model.Admin),
		adminEmails: make(map[string]model.AdminID),
		subjects:    make(map[model.SubjectID]*model.Subject),
		words:       make(map[model.WordID]*model.Word),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) GetPlayers(ctx context.Context, ids []model.PlayerID) (map[model.PlayerID]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[model.PlayerID]*model.Player, len(ids))
	for _, id := range ids {
		if player, ok := s.players[id]; ok {
			p := *player
			result[id] = &p
		}
	}
	return result, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		p := *player
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Storage) SetPlayerActive(ctx context.Context, id model.PlayerID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.IsActive = active
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return model.ErrPlayerNotFound
	}
	delete(s.players, id)
	if creds, ok := s.credentials[id]; ok {
		delete(s.emailIndex, creds.Email)
		delete(s.credentials, id)
	}
	kept := s.events[:0]
	for _, e := range s.events {
		if e.PlayerID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

// Player credential operations

func (s *Storage) SavePlayerCredentials(ctx context.Context, creds *model.PlayerCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(creds.Email)
	if owner, ok := s.emailIndex[email]; ok && owner != creds.PlayerID {
		return model.ErrDuplicate
	}
	c := *creds
	c.Email = email
	s.credentials[creds.PlayerID] = &c
	s.emailIndex[email] = creds.PlayerID
	return nil
}

func (s *Storage) GetPlayerCredentialsByEmail(ctx context.Context, email string) (*model.PlayerCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrEmailNotFound
	}
	creds, ok := s.credentials[playerID]
	if !ok {
		return nil, model.ErrEmailNotFound
	}
	c := *creds
	return &c, nil
}

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(admin.Email)
	if owner, ok := s.adminEmails[email]; ok && owner != admin.ID {
		return model.ErrDuplicate
	}
	a := *admin
	a.Email = email
	s.admins[admin.ID] = &a
	s.adminEmails[email] = admin.ID
	return nil
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[id]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	a := *admin
	return &a, nil
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.adminEmails[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	a := *s.admins[id]
	return &a, nil
}

func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}

// Score operations

func (s *Storage) AppendScoreEvent(ctx context.Context, event *model.ScoreEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[event.PlayerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	e := *event
	s.events = append(s.events, &e)
	player.TotalScore += event.Points
	player.GamesPlayed++
	return nil
}

func (s *Storage) ListScoreEvents(ctx context.Context, q storage.ScoreQuery) ([]*model.ScoreEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.ScoreEvent
	for _, e := range s.events {
		if q.Matches(e) {
			ev := *e
			result = append(result, &ev)
		}
	}
	return result, nil
}

// Subject operations

func (s *Storage) SaveSubject(ctx context.Context, subject *model.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.subjects {
		if id != subject.ID && strings.EqualFold(existing.Name, subject.Name) {
			return model.ErrDuplicate
		}
	}
	sub := *subject
	s.subjects[subject.ID] = &sub
	return nil
}

func (s *Storage) GetSubject(ctx context.Context, id model.SubjectID) (*model.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjects[id]
	if !ok {
		return nil, model.ErrSubjectNotFound
	}
	sub := *subject
	return &sub, nil
}

func (s *Storage) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		sub := *subject
		result = append(result, &sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Storage) DeleteSubject(ctx context.Context, id model.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[id]; !ok {
		return model.ErrSubjectNotFound
	}
	delete(s.subjects, id)
	for wid, w := range s.words {
		if w.SubjectID == id {
			delete(s.words, wid)
		}
	}
	return nil
}

// Word operations

func (s *Storage) SaveWord(ctx context.Context, word *model.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[word.SubjectID]; !ok {
		return model.ErrSubjectNotFound
	}
	w := *word
	s.words[word.ID] = &w
	return nil
}

func (s *Storage) GetWord(ctx context.Context, id model.WordID) (*model.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	word, ok := s.words[id]
	if !ok {
		return nil, model.ErrWordNotFound
	}
	w := *word
	return &w, nil
}

func (s *Storage) ListWords(ctx context.Context, subjectID model.SubjectID) ([]*model.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Word
	for _, word := range s.words {
		if word.SubjectID == subjectID {
			w := *word
			result = append(result, &w)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Text != result[j].Text {
			return result[i].Text < result[j].Text
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Storage) DeleteWord(ctx context.Context, id model.WordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words[id]; !ok {
		return model.ErrWordNotFound
	}
	delete(s.words, id)
	return nil
}

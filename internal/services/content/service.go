package content

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/wordquiz/internal/dependencies/clock"
	"github.com/mcoot/wordquiz/internal/dependencies/random"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// ErrSubjectExists is returned when a subject name is already taken (case-insensitive)
var ErrSubjectExists = errors.New("subject already exists")

const maxTextLength = 200

// Service manages quiz subjects and the words played under them
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
}

// New creates a new content Service
func New(storage storage.Storage, clock clock.Clock, random random.Random) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
	}
}

// CreateSubject adds a new subject
func (s *Service) CreateSubject(ctx context.Context, name string) (*model.Subject, error) {
	name, err := cleanText("subject name", name)
	if err != nil {
		return nil, err
	}

	subject := &model.Subject{
		ID:        model.SubjectID(model.NewID("sub_")),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveSubject(ctx, subject); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, ErrSubjectExists
		}
		return nil, err
	}
	return subject, nil
}

// ListSubjects returns all subjects ordered by name
func (s *Service) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	return s.storage.ListSubjects(ctx)
}

// GetSubject returns a single subject
func (s *Service) GetSubject(ctx context.Context, id model.SubjectID) (*model.Subject, error) {
	return s.storage.GetSubject(ctx, id)
}

// DeleteSubject removes a subject and every word under it
func (s *Service) DeleteSubject(ctx context.Context, id model.SubjectID) error {
	return s.storage.DeleteSubject(ctx, id)
}

// AddWord adds a word to an existing subject
func (s *Service) AddWord(ctx context.Context, subjectID model.SubjectID, text, hint string) (*model.Word, error) {
	text, err := cleanText("word", text)
	if err != nil {
		return nil, err
	}
	hint = strings.TrimSpace(hint)
	if len(hint) > maxTextLength {
		return nil, fmt.Errorf("%w: hint is longer than %d characters", model.ErrInvalidInput, maxTextLength)
	}

	word := &model.Word{
		ID:        model.WordID(model.NewID("w_")),
		SubjectID: subjectID,
		Text:      text,
		Hint:      hint,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveWord(ctx, word); err != nil {
		return nil, err
	}
	return word, nil
}

// ListWords returns the words of a subject
func (s *Service) ListWords(ctx context.Context, subjectID model.SubjectID) ([]*model.Word, error) {
	if _, err := s.storage.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.storage.ListWords(ctx, subjectID)
}

// DeleteWord removes a single word
func (s *Service) DeleteWord(ctx context.Context, id model.WordID) error {
	return s.storage.DeleteWord(ctx, id)
}

// RandomWord picks a word from a subject for the next round of play
func (s *Service) RandomWord(ctx context.Context, subjectID model.SubjectID) (*model.Word, error) {
	words, err := s.ListWords(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrNoWords
	}
	return words[s.random.Intn(len(words))], nil
}

// LoadFromFile seeds a subject from a file with one word per line.
// A tab separates an optional hint; blank lines and lines starting with # are skipped.
// The subject is created if no subject with that name exists, and words
// already present in the subject are not added twice.
func (s *Service) LoadFromFile(ctx context.Context, subjectName, path string) (*model.Subject, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	type entry struct{ text, hint string }
	var entries []entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		text, hint, _ := strings.Cut(line, "\t")
		entries = append(entries, entry{text: text, hint: hint})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	subject, err := s.findOrCreateSubject(ctx, subjectName)
	if err != nil {
		return nil, 0, err
	}

	existing, err := s.storage.ListWords(ctx, subject.ID)
	if err != nil {
		return nil, 0, err
	}
	seen := make(map[string]struct{}, len(existing)+len(entries))
	for _, w := range existing {
		seen[strings.ToLower(w.Text)] = struct{}{}
	}

	added := 0
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.text))
		if _, dup := seen[key]; dup {
			continue
		}
		if _, err := s.AddWord(ctx, subject.ID, e.text, e.hint); err != nil {
			return subject, added, err
		}
		seen[key] = struct{}{}
		added++
	}
	return subject, added, nil
}

func (s *Service) findOrCreateSubject(ctx context.Context, name string) (*model.Subject, error) {
	subjects, err := s.storage.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, subject := range subjects {
		if strings.EqualFold(subject.Name, strings.TrimSpace(name)) {
			return subject, nil
		}
	}
	return s.CreateSubject(ctx, name)
}

func cleanText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", model.ErrInvalidInput, field)
	}
	if len(value) > maxTextLength {
		return "", fmt.Errorf("%w: %s is longer than %d characters", model.ErrInvalidInput, field, maxTextLength)
	}
	return value, nil
}

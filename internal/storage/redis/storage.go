package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = DefaultConfig().DialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations
// Players are stored as hashes so score totals can be bumped with HINCRBY.

func playerToHash(p *model.Player) map[string]any {
	return map[string]any{
		"id":           string(p.ID),
		"email":        p.Email,
		"phone":        p.Phone,
		"display_name": p.DisplayName,
		"total_score":  p.TotalScore,
		"games_played": p.GamesPlayed,
		"is_active":    strconv.FormatBool(p.IsActive),
		"created_at":   p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func playerFromHash(h map[string]string) (*model.Player, error) {
	total, err := strconv.ParseInt(h["total_score"], 10, 64)
	if err != nil {
		return nil, err
	}
	played, err := strconv.Atoi(h["games_played"])
	if err != nil {
		return nil, err
	}
	active, err := strconv.ParseBool(h["is_active"])
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, h["created_at"])
	if err != nil {
		return nil, err
	}
	return &model.Player{
		ID:          model.PlayerID(h["id"]),
		Email:       h["email"],
		Phone:       h["phone"],
		DisplayName: h["display_name"],
		TotalScore:  total,
		GamesPlayed: played,
		IsActive:    active,
		CreatedAt:   createdAt,
	}, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, playerKey(player.ID), playerToHash(player))
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	h, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return playerFromHash(h)
}

func (s *Storage) GetPlayers(ctx context.Context, ids []model.PlayerID) (map[model.PlayerID]*model.Player, error) {
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, playerKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result := make(map[model.PlayerID]*model.Player, len(ids))
	for i, cmd := range cmds {
		h := cmd.Val()
		if len(h) == 0 {
			continue
		}
		p, err := playerFromHash(h)
		if err != nil {
			return nil, err
		}
		result[ids[i]] = p
	}
	return result, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	playerIDs := make([]model.PlayerID, len(ids))
	for i, id := range ids {
		playerIDs[i] = model.PlayerID(id)
	}
	byID, err := s.GetPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Player, 0, len(byID))
	for _, p := range byID {
		result = append(result, p)
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
	n, err := setActiveScript.Run(ctx, s.client,
		[]string{playerKey(id)},
		strconv.FormatBool(active),
	).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	// Emails never change after registration, so the index key can be read up front.
	emailKey := ""
	data, err := s.client.Get(ctx, credentialsKey(id)).Bytes()
	switch {
	case err == nil:
		var creds model.PlayerCredentials
		if err := json.Unmarshal(data, &creds); err != nil {
			return err
		}
		emailKey = emailIndexKey(creds.Email)
	case !errors.Is(err, redis.Nil):
		return err
	}

	n, err := deletePlayerScript.Run(ctx, s.client,
		[]string{
			playerKey(id),
			credentialsKey(id),
			playerEventsIndexKey(id),
			playersIndexKey(),
			scoreEventsKey(),
			emailKey,
		},
		string(id),
	).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Player credential operations

func (s *Storage) SavePlayerCredentials(ctx context.Context, creds *model.PlayerCredentials) error {
	c := *creds
	c.Email = strings.ToLower(c.Email)
	if err := s.claimIndex(ctx, emailIndexKey(c.Email), string(c.PlayerID)); err != nil {
		return err
	}

	data, err := json.Marshal(&c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialsKey(c.PlayerID), data, 0).Err()
}

func (s *Storage) GetPlayerCredentialsByEmail(ctx context.Context, email string) (*model.PlayerCredentials, error) {
	playerID, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEmailNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.PlayerID(playerID))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEmailNotFound
		}
		return nil, err
	}

	var creds model.PlayerCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// claimIndex points a unique index key at owner, failing if another owner holds it
func (s *Storage) claimIndex(ctx context.Context, key, owner string) error {
	ok, err := s.client.SetNX(ctx, key, owner, 0).Result()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	current, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	if current != owner {
		return model.ErrDuplicate
	}
	return nil
}

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	a := *admin
	a.Email = strings.ToLower(a.Email)
	if err := s.claimIndex(ctx, adminEmailIndexKey(a.Email), string(a.ID)); err != nil {
		return err
	}

	data, err := json.Marshal(&a)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, adminKey(a.ID), data, 0)
	pipe.SAdd(ctx, adminsIndexKey(), string(a.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	data, err := s.client.Get(ctx, adminKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	var admin model.Admin
	if err := json.Unmarshal(data, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	id, err := s.client.Get(ctx, adminEmailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}
	return s.GetAdmin(ctx, model.AdminID(id))
}

func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, adminsIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Score operations

func (s *Storage) AppendScoreEvent(ctx context.Context, event *model.ScoreEvent) error {
	member, err := json.Marshal(event)
	if err != nil {
		return err
	}

	n, err := appendScoreScript.Run(ctx, s.client,
		[]string{
			playerKey(event.PlayerID),
			scoreEventsKey(),
			playerEventsIndexKey(event.PlayerID),
		},
		event.CreatedAt.UnixMilli(),
		string(member),
		event.Points,
	).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) ListScoreEvents(ctx context.Context, q storage.ScoreQuery) ([]*model.ScoreEvent, error) {
	minScore := "-inf"
	if !q.Since.IsZero() {
		minScore = strconv.FormatInt(q.Since.UnixMilli(), 10)
	}

	members, err := s.client.ZRangeByScore(ctx, scoreEventsKey(), &redis.ZRangeBy{
		Min: minScore,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*model.ScoreEvent, 0, len(members))
	for _, m := range members {
		var e model.ScoreEvent
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			return nil, err
		}
		if q.Matches(&e) {
			events = append(events, &e)
		}
	}
	return events, nil
}

// Subject operations

func (s *Storage) SaveSubject(ctx context.Context, subject *model.Subject) error {
	if err := s.claimIndex(ctx, subjectNameIndexKey(subject.Name), string(subject.ID)); err != nil {
		return err
	}

	data, err := json.Marshal(subject)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, subjectKey(subject.ID), data, 0)
	pipe.SAdd(ctx, subjectsIndexKey(), string(subject.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSubject(ctx context.Context, id model.SubjectID) (*model.Subject, error) {
	data, err := s.client.Get(ctx, subjectKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSubjectNotFound
		}
		return nil, err
	}

	var subject model.Subject
	if err := json.Unmarshal(data, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *Storage) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	ids, err := s.client.SMembers(ctx, subjectsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	subjects := make([]*model.Subject, 0, len(ids))
	for _, id := range ids {
		subject, err := s.GetSubject(ctx, model.SubjectID(id))
		if err != nil {
			if errors.Is(err, model.ErrSubjectNotFound) {
				continue
			}
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (s *Storage) DeleteSubject(ctx context.Context, id model.SubjectID) error {
	subject, err := s.GetSubject(ctx, id)
	if err != nil {
		return err
	}

	wordIDs, err := s.client.SMembers(ctx, subjectWordsIndexKey(id)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, wid := range wordIDs {
		pipe.Del(ctx, wordKey(model.WordID(wid)))
	}
	pipe.Del(ctx, subjectKey(id), subjectWordsIndexKey(id), subjectNameIndexKey(subject.Name))
	pipe.SRem(ctx, subjectsIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Word operations

func (s *Storage) SaveWord(ctx context.Context, word *model.Word) error {
	n, err := s.client.Exists(ctx, subjectKey(word.SubjectID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrSubjectNotFound
	}

	data, err := json.Marshal(word)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, wordKey(word.ID), data, 0)
	pipe.SAdd(ctx, subjectWordsIndexKey(word.SubjectID), string(word.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetWord(ctx context.Context, id model.WordID) (*model.Word, error) {
	data, err := s.client.Get(ctx, wordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrWordNotFound
		}
		return nil, err
	}

	var word model.Word
	if err := json.Unmarshal(data, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

func (s *Storage) ListWords(ctx context.Context, subjectID model.SubjectID) ([]*model.Word, error) {
	ids, err := s.client.SMembers(ctx, subjectWordsIndexKey(subjectID)).Result()
	if err != nil {
		return nil, err
	}

	words := make([]*model.Word, 0, len(ids))
	for _, id := range ids {
		word, err := s.GetWord(ctx, model.WordID(id))
		if err != nil {
			if errors.Is(err, model.ErrWordNotFound) {
				continue
			}
			return nil, err
		}
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Text != words[j].Text {
			return words[i].Text < words[j].Text
		}
		return words[i].ID < words[j].ID
	})
	return words, nil
}

func (s *Storage) DeleteWord(ctx context.Context, id model.WordID) error {
	word, err := s.GetWord(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, wordKey(id))
	pipe.SRem(ctx, subjectWordsIndexKey(word.SubjectID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

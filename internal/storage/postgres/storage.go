package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/storage"
)

// SQLSTATE codes the storage translates into model errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// poolIface is the subset of *pgxpool.Pool used by Storage.
// pgxmock.PgxPoolIface satisfies it for unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool poolIface
}

// New connects to PostgreSQL and, when cfg.AutoMigrate is set, applies the embedded migrations.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_PING_FAILED").Wrap(err)
	}

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.URL); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Storage{pool: pool}, nil
}

func migrateUp(url string) error {
	m, err := NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// NewWithPool creates a storage over an existing pool (for testing)
func NewWithPool(pool poolIface) *Storage {
	return &Storage{pool: pool}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Player operations

const playerColumns = `id, email, phone, display_name, total_score, games_played, is_active, created_at`

func scanPlayer(row rowScanner) (*model.Player, error) {
	var p model.Player
	var id string
	if err := row.Scan(&id, &p.Email, &p.Phone, &p.DisplayName, &p.TotalScore, &p.GamesPlayed, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(id)
	return &p, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			display_name = EXCLUDED.display_name,
			total_score = EXCLUDED.total_score,
			games_played = EXCLUDED.games_played,
			is_active = EXCLUDED.is_active
	`,
		string(player.ID),
		player.Email,
		player.Phone,
		player.DisplayName,
		player.TotalScore,
		player.GamesPlayed,
		player.IsActive,
		player.CreatedAt,
	)
	if err != nil {
		return oops.Code("PLAYER_SAVE_FAILED").With("player_id", player.ID).Wrap(err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, string(id))

	player, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").With("player_id", id).Wrap(model.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAYER_GET_FAILED").With("player_id", id).Wrap(err)
	}
	return player, nil
}

func (s *Storage) GetPlayers(ctx context.Context, ids []model.PlayerID) (map[model.PlayerID]*model.Player, error) {
	result := make(map[model.PlayerID]*model.Player, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "get players").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "scan player row").Wrap(err)
		}
		result[player.ID] = player
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "iterate players").Wrap(err)
	}
	return result, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "list players").Wrap(err)
	}
	defer rows.Close()

	players := make([]*model.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "scan player row").Wrap(err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PLAYER_LIST_FAILED").With("operation", "iterate players").Wrap(err)
	}
	return players, nil
}

func (s *Storage) SetPlayerActive(ctx context.Context, id model.PlayerID, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE players SET is_active = $2 WHERE id = $1`, string(id), active)
	if err != nil {
		return oops.Code("PLAYER_UPDATE_FAILED").With("player_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").With("player_id", id).Wrap(model.ErrPlayerNotFound)
	}
	return nil
}

// DeletePlayer relies on ON DELETE CASCADE for credentials and score events.
func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, string(id))
	if err != nil {
		return oops.Code("PLAYER_DELETE_FAILED").With("player_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").With("player_id", id).Wrap(model.ErrPlayerNotFound)
	}
	return nil
}

// Player credential operations

func (s *Storage) SavePlayerCredentials(ctx context.Context, creds *model.PlayerCredentials) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO player_credentials (player_id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
	`,
		string(creds.PlayerID),
		strings.ToLower(creds.Email),
		creds.PasswordHash,
		creds.CreatedAt,
		creds.UpdatedAt,
	)
	if isPgError(err, uniqueViolation) {
		return oops.Code("EMAIL_TAKEN").With("player_id", creds.PlayerID).Wrap(model.ErrDuplicate)
	}
	if isPgError(err, foreignKeyViolation) {
		return oops.Code("PLAYER_NOT_FOUND").With("player_id", creds.PlayerID).Wrap(model.ErrPlayerNotFound)
	}
	if err != nil {
		return oops.Code("CREDENTIALS_SAVE_FAILED").With("player_id", creds.PlayerID).Wrap(err)
	}
	return nil
}

func (s *Storage) GetPlayerCredentialsByEmail(ctx context.Context, email string) (*model.PlayerCredentials, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT player_id, email, password_hash, created_at, updated_at
		FROM player_credentials
		WHERE LOWER(email) = LOWER($1)
	`, email)

	var creds model.PlayerCredentials
	var playerID string
	err := row.Scan(&playerID, &creds.Email, &creds.PasswordHash, &creds.CreatedAt, &creds.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("EMAIL_NOT_FOUND").Wrap(model.ErrEmailNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIALS_GET_FAILED").Wrap(err)
	}
	creds.PlayerID = model.PlayerID(playerID)
	return &creds, nil
}

// Admin operations

func scanAdmin(row rowScanner) (*model.Admin, error) {
	var a model.Admin
	var id string
	if err := row.Scan(&id, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = model.AdminID(id)
	return &a, nil
}

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash
	`,
		string(admin.ID),
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.CreatedAt,
	)
	if isPgError(err, uniqueViolation) {
		return oops.Code("EMAIL_TAKEN").With("admin_id", admin.ID).Wrap(model.ErrDuplicate)
	}
	if err != nil {
		return oops.Code("ADMIN_SAVE_FAILED").With("admin_id", admin.ID).Wrap(err)
	}
	return nil
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE id = $1`, string(id))

	admin, err := scanAdmin(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ADMIN_NOT_FOUND").With("admin_id", id).Wrap(model.ErrAdminNotFound)
	}
	if err != nil {
		return nil, oops.Code("ADMIN_GET_FAILED").With("admin_id", id).Wrap(err)
	}
	return admin, nil
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE LOWER(email) = LOWER($1)`, email)

	admin, err := scanAdmin(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ADMIN_NOT_FOUND").Wrap(model.ErrAdminNotFound)
	}
	if err != nil {
		return nil, oops.Code("ADMIN_GET_FAILED").Wrap(err)
	}
	return admin, nil
}

func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, oops.Code("ADMIN_COUNT_FAILED").Wrap(err)
	}
	return count, nil
}

// Score operations

// AppendScoreEvent bumps the accumulator and inserts the event in one transaction.
func (s *Storage) AppendScoreEvent(ctx context.Context, event *model.ScoreEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE players SET total_score = total_score + $2, games_played = games_played + 1
		WHERE id = $1
	`, string(event.PlayerID), event.Points)
	if err != nil {
		_ = tx.Rollback(ctx)
		return oops.Code("SCORE_APPEND_FAILED").With("player_id", event.PlayerID).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return oops.Code("PLAYER_NOT_FOUND").With("player_id", event.PlayerID).Wrap(model.ErrPlayerNotFound)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO score_events (id, player_id, points, challenge, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(event.ID),
		string(event.PlayerID),
		event.Points,
		event.Challenge,
		event.CreatedAt,
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		return oops.Code("SCORE_APPEND_FAILED").With("event_id", event.ID).Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

func (s *Storage) ListScoreEvents(ctx context.Context, q storage.ScoreQuery) ([]*model.ScoreEvent, error) {
	sql := `SELECT id, player_id, points, challenge, created_at FROM score_events`
	var conds []string
	var args []any
	if !q.Since.IsZero() {
		args = append(args, q.Since)
		conds = append(conds, "created_at >= $1")
	}
	if q.ChallengeOnly {
		conds = append(conds, "challenge")
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY created_at, id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, oops.Code("SCORE_LIST_FAILED").With("operation", "list score events").Wrap(err)
	}
	defer rows.Close()

	events := make([]*model.ScoreEvent, 0)
	for rows.Next() {
		var e model.ScoreEvent
		var id, playerID string
		if err := rows.Scan(&id, &playerID, &e.Points, &e.Challenge, &e.CreatedAt); err != nil {
			return nil, oops.Code("SCORE_LIST_FAILED").With("operation", "scan score event row").Wrap(err)
		}
		e.ID = model.ScoreEventID(id)
		e.PlayerID = model.PlayerID(playerID)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SCORE_LIST_FAILED").With("operation", "iterate score events").Wrap(err)
	}
	return events, nil
}

// Subject operations

func (s *Storage) SaveSubject(ctx context.Context, subject *model.Subject) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subjects (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, string(subject.ID), subject.Name, subject.CreatedAt)
	if isPgError(err, uniqueViolation) {
		return oops.Code("SUBJECT_NAME_TAKEN").With("name", subject.Name).Wrap(model.ErrDuplicate)
	}
	if err != nil {
		return oops.Code("SUBJECT_SAVE_FAILED").With("subject_id", subject.ID).Wrap(err)
	}
	return nil
}

func (s *Storage) GetSubject(ctx context.Context, id model.SubjectID) (*model.Subject, error) {
	var subject model.Subject
	var rawID string
	err := s.pool.QueryRow(ctx, `SELECT id, name, created_at FROM subjects WHERE id = $1`, string(id)).
		Scan(&rawID, &subject.Name, &subject.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SUBJECT_NOT_FOUND").With("subject_id", id).Wrap(model.ErrSubjectNotFound)
	}
	if err != nil {
		return nil, oops.Code("SUBJECT_GET_FAILED").With("subject_id", id).Wrap(err)
	}
	subject.ID = model.SubjectID(rawID)
	return &subject, nil
}

func (s *Storage) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM subjects ORDER BY name`)
	if err != nil {
		return nil, oops.Code("SUBJECT_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	subjects := make([]*model.Subject, 0)
	for rows.Next() {
		var subject model.Subject
		var id string
		if err := rows.Scan(&id, &subject.Name, &subject.CreatedAt); err != nil {
			return nil, oops.Code("SUBJECT_LIST_FAILED").With("operation", "scan subject row").Wrap(err)
		}
		subject.ID = model.SubjectID(id)
		subjects = append(subjects, &subject)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SUBJECT_LIST_FAILED").With("operation", "iterate subjects").Wrap(err)
	}
	return subjects, nil
}

// DeleteSubject relies on ON DELETE CASCADE for the subject's words.
func (s *Storage) DeleteSubject(ctx context.Context, id model.SubjectID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, string(id))
	if err != nil {
		return oops.Code("SUBJECT_DELETE_FAILED").With("subject_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("SUBJECT_NOT_FOUND").With("subject_id", id).Wrap(model.ErrSubjectNotFound)
	}
	return nil
}

// Word operations

const wordColumns = `id, subject_id, text, hint, created_at`

func scanWord(row rowScanner) (*model.Word, error) {
	var w model.Word
	var id, subjectID string
	if err := row.Scan(&id, &subjectID, &w.Text, &w.Hint, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.ID = model.WordID(id)
	w.SubjectID = model.SubjectID(subjectID)
	return &w, nil
}

func (s *Storage) SaveWord(ctx context.Context, word *model.Word) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO words (`+wordColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			subject_id = EXCLUDED.subject_id,
			text = EXCLUDED.text,
			hint = EXCLUDED.hint
	`,
		string(word.ID),
		string(word.SubjectID),
		word.Text,
		word.Hint,
		word.CreatedAt,
	)
	if isPgError(err, foreignKeyViolation) {
		return oops.Code("SUBJECT_NOT_FOUND").With("subject_id", word.SubjectID).Wrap(model.ErrSubjectNotFound)
	}
	if err != nil {
		return oops.Code("WORD_SAVE_FAILED").With("word_id", word.ID).Wrap(err)
	}
	return nil
}

func (s *Storage) GetWord(ctx context.Context, id model.WordID) (*model.Word, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+wordColumns+` FROM words WHERE id = $1`, string(id))

	word, err := scanWord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORD_NOT_FOUND").With("word_id", id).Wrap(model.ErrWordNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORD_GET_FAILED").With("word_id", id).Wrap(err)
	}
	return word, nil
}

func (s *Storage) ListWords(ctx context.Context, subjectID model.SubjectID) ([]*model.Word, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+wordColumns+` FROM words WHERE subject_id = $1 ORDER BY text, id`, string(subjectID))
	if err != nil {
		return nil, oops.Code("WORD_LIST_FAILED").With("subject_id", subjectID).Wrap(err)
	}
	defer rows.Close()

	words := make([]*model.Word, 0)
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, oops.Code("WORD_LIST_FAILED").With("operation", "scan word row").Wrap(err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("WORD_LIST_FAILED").With("operation", "iterate words").Wrap(err)
	}
	return words, nil
}

func (s *Storage) DeleteWord(ctx context.Context, id model.WordID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM words WHERE id = $1`, string(id))
	if err != nil {
		return oops.Code("WORD_DELETE_FAILED").With("word_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("WORD_NOT_FOUND").With("word_id", id).Wrap(model.ErrWordNotFound)
	}
	return nil
}

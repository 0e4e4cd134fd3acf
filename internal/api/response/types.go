package response

import (
	"time"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/auth"
)

// Player is the public view of a player principal
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// PlayerFromPrincipal converts a model.PlayerPrincipal
func PlayerFromPrincipal(p model.PlayerPrincipal) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsActive:    p.IsActive,
	}
}

// PlayerRecord is the admin view of a stored player
type PlayerRecord struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	DisplayName string    `json:"display_name"`
	TotalScore  int64     `json:"total_score"`
	GamesPlayed int       `json:"games_played"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlayerRecordFromModel converts a model.Player
func PlayerRecordFromModel(p *model.Player) PlayerRecord {
	return PlayerRecord{
		ID:          string(p.ID),
		Email:       p.Email,
		Phone:       p.Phone,
		DisplayName: p.DisplayName,
		TotalScore:  p.TotalScore,
		GamesPlayed: p.GamesPlayed,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// PlayerRecordsFromModel converts a slice of model.Player
func PlayerRecordsFromModel(players []*model.Player) []PlayerRecord {
	out := make([]PlayerRecord, len(players))
	for i, p := range players {
		out[i] = PlayerRecordFromModel(p)
	}
	return out
}

// Admin is the public view of an admin principal. The password hash never leaves the store.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminFromPrincipal converts a model.AdminPrincipal
func AdminFromPrincipal(a model.AdminPrincipal) Admin {
	return Admin{ID: string(a.ID), Email: a.Email}
}

// AuthResponse is the response for login, registration and bootstrap
type AuthResponse struct {
	Kind         string    `json:"kind"`
	Player       *Player   `json:"player,omitempty"`
	Admin        *Admin    `json:"admin,omitempty"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	resp := AuthResponse{
		Kind:         string(s.Principal.Kind()),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
	switch p := s.Principal.(type) {
	case model.PlayerPrincipal:
		player := PlayerFromPrincipal(p)
		resp.Player = &player
	case model.AdminPrincipal:
		admin := AdminFromPrincipal(p)
		resp.Admin = &admin
	case model.Anonymous:
	}
	return resp
}

// Status is a minimal acknowledgement body
type Status struct {
	Status string `json:"status"`
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int64  `json:"score"`
}

// LeaderboardEntryFromModel converts a model.LeaderboardEntry
func LeaderboardEntryFromModel(e model.LeaderboardEntry) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:        e.Rank,
		PlayerID:    string(e.PlayerID),
		DisplayName: e.DisplayName,
		Score:       e.Score,
	}
}

// Leaderboard is a ranked list for one window
type Leaderboard struct {
	Window  string             `json:"window"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts ranked entries; an empty ranking encodes as []
func LeaderboardFromModel(window model.Window, entries []model.LeaderboardEntry) Leaderboard {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntryFromModel(e)
	}
	return Leaderboard{Window: string(window), Entries: out}
}

// ScoreEvent is a recorded score
type ScoreEvent struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Points    int64     `json:"points"`
	Challenge bool      `json:"challenge"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreEventFromModel converts a model.ScoreEvent
func ScoreEventFromModel(e *model.ScoreEvent) ScoreEvent {
	return ScoreEvent{
		ID:        string(e.ID),
		PlayerID:  string(e.PlayerID),
		Points:    e.Points,
		Challenge: e.Challenge,
		CreatedAt: e.CreatedAt,
	}
}

// Subject is a content subject
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectFromModel converts a model.Subject
func SubjectFromModel(s *model.Subject) Subject {
	return Subject{ID: string(s.ID), Name: s.Name, CreatedAt: s.CreatedAt}
}

// SubjectsFromModel converts a slice of model.Subject
func SubjectsFromModel(subjects []*model.Subject) []Subject {
	out := make([]Subject, len(subjects))
	for i, s := range subjects {
		out[i] = SubjectFromModel(s)
	}
	return out
}

// Word is a playable word
type Word struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Text      string    `json:"text"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WordFromModel converts a model.Word
func WordFromModel(w *model.Word) Word {
	return Word{
		ID:        string(w.ID),
		SubjectID: string(w.SubjectID),
		Text:      w.Text,
		Hint:      w.Hint,
		CreatedAt: w.CreatedAt,
	}
}

// WordsFromModel converts a slice of model.Word
func WordsFromModel(words []*model.Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = WordFromModel(w)
	}
	return out
}

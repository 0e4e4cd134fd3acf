package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerRecord:
		o.printPlayerRecords([]PlayerRecord{v})
	case []PlayerRecord:
		o.printPlayerRecords(v)
	case Admin:
		fmt.Printf("Admin: %s (%s)\n", v.Email, v.ID)
	case AuthResult:
		o.printAuthResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case LeaderboardEntry:
		fmt.Printf("Rank %d: %d points\n", v.Rank, v.Score)
	case ScoreEvent:
		fmt.Printf("Recorded %d points (challenge: %t)\n", v.Points, v.Challenge)
	case []Subject:
		for _, s := range v {
			fmt.Printf("%s  %s\n", s.ID, s.Name)
		}
	case Subject:
		fmt.Printf("%s  %s\n", v.ID, v.Name)
	case []Word:
		for _, w := range v {
			o.printWord(w)
		}
	case Word:
		o.printWord(v)
	case HealthResult:
		fmt.Printf("Status: %s (%dms)\n", v.Status, v.LatencyMS)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
}

// PlayerRecord is the admin view of a player
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

// Admin response type
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResult is returned by every endpoint that opens a session
type AuthResult struct {
	Kind         string    `json:"kind"`
	Player       *Player   `json:"player,omitempty"`
	Admin        *Admin    `json:"admin,omitempty"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int64  `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Window  string             `json:"window"`
	Entries []LeaderboardEntry `json:"entries"`
}

// ScoreEvent response type
type ScoreEvent struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Points    int64     `json:"points"`
	Challenge bool      `json:"challenge"`
	CreatedAt time.Time `json:"created_at"`
}

// Subject response type
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Word response type
type Word struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Text      string    `json:"text"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResult is the health response plus the measured round trip
type HealthResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func (o *Output) printPlayer(p Player) {
	status := "active"
	if !p.IsActive {
		status = "inactive"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Status: %s\n", status)
}

func (o *Output) printAuthResult(a AuthResult) {
	switch {
	case a.Player != nil:
		o.printPlayer(*a.Player)
	case a.Admin != nil:
		fmt.Printf("Admin: %s (%s)\n", a.Admin.Email, a.Admin.ID)
	}
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printPlayerRecords(players []PlayerRecord) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSCORE\tGAMES\tACTIVE")
	for _, p := range players {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\n",
			p.ID, p.DisplayName, p.Email, p.TotalScore, p.GamesPlayed, p.IsActive)
	}
	_ = tw.Flush()
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard: %s\n", l.Window)
	if len(l.Entries) == 0 {
		fmt.Println("  (no scores yet)")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range l.Entries {
		_, _ = fmt.Fprintf(tw, "  %d.\t%s\t%d\n", e.Rank, e.DisplayName, e.Score)
	}
	_ = tw.Flush()
}

func (o *Output) printWord(w Word) {
	if w.Hint != "" {
		fmt.Printf("%s  %s (%s)\n", w.ID, w.Text, w.Hint)
		return
	}
	fmt.Printf("%s  %s\n", w.ID, w.Text)
}

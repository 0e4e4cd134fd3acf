package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/wordquiz/internal/model"
)

func TestScoreQueryMatches(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query ScoreQuery
		event model.ScoreEvent
		want  bool
	}{
		{"empty query matches everything", ScoreQuery{}, model.ScoreEvent{CreatedAt: start.Add(-time.Hour)}, true},
		{"since is inclusive", ScoreQuery{Since: start}, model.ScoreEvent{CreatedAt: start}, true},
		{"one second before since", ScoreQuery{Since: start}, model.ScoreEvent{CreatedAt: start.Add(-time.Second)}, false},
		{"challenge only rejects periodic", ScoreQuery{ChallengeOnly: true}, model.ScoreEvent{CreatedAt: start}, false},
		{"challenge only accepts challenge", ScoreQuery{ChallengeOnly: true}, model.ScoreEvent{Challenge: true, CreatedAt: start}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Matches(&tt.event))
		})
	}
}

package model

import "time"

// SubjectID identifies a content subject
type SubjectID string

// WordID identifies a word
type WordID string

// Subject groups words for a round of play
type Subject struct {
	ID        SubjectID
	Name      string
	CreatedAt time.Time
}

// Word is a playable word belonging to a subject
type Word struct {
	ID        WordID
	SubjectID SubjectID
	Text      string
	Hint      string
	CreatedAt time.Time
}

package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/wordquiz/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordquiz"

// playerKey returns the Redis key for a Player hash
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player IDs
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// credentialsKey returns the Redis key for a player's credentials
func credentialsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> player_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// adminKey returns the Redis key for an Admin
func adminKey(id model.AdminID) string {
	return fmt.Sprintf("%s:admin:%s", keyPrefix, id)
}

// adminEmailIndexKey returns the Redis key for the admin email -> admin_id index
func adminEmailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:admin_email:%s", keyPrefix, strings.ToLower(email))
}

// adminsIndexKey returns the Redis key for the SET of all admin IDs
func adminsIndexKey() string {
	return fmt.Sprintf("%s:idx:admins", keyPrefix)
}

// scoreEventsKey returns the Redis key for the ZSET of all score events, scored by unix millis
func scoreEventsKey() string {
	return fmt.Sprintf("%s:score_events", keyPrefix)
}

// playerEventsIndexKey returns the Redis key for the SET of a player's score event members
func playerEventsIndexKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_events:%s", keyPrefix, id)
}

// subjectKey returns the Redis key for a Subject
func subjectKey(id model.SubjectID) string {
	return fmt.Sprintf("%s:subject:%s", keyPrefix, id)
}

// subjectsIndexKey returns the Redis key for the SET of all subject IDs
func subjectsIndexKey() string {
	return fmt.Sprintf("%s:idx:subjects", keyPrefix)
}

// subjectNameIndexKey returns the Redis key for the subject name -> subject_id index
func subjectNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:subject_name:%s", keyPrefix, strings.ToLower(name))
}

// wordKey returns the Redis key for a Word
func wordKey(id model.WordID) string {
	return fmt.Sprintf("%s:word:%s", keyPrefix, id)
}

// subjectWordsIndexKey returns the Redis key for the SET of word IDs in a subject
func subjectWordsIndexKey(id model.SubjectID) string {
	return fmt.Sprintf("%s:idx:subject_words:%s", keyPrefix, id)
}

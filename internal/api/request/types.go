package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LoginRequest is the request body for player and admin login, and admin bootstrap
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SubmitScoreRequest is the request body for recording a score.
// Points is a pointer so a missing field can be told apart from zero.
type SubmitScoreRequest struct {
	Points    *int64 `json:"points"`
	Challenge bool   `json:"challenge"`
}

// SetStatusRequest is the request body for activating or deactivating a player
type SetStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// CreateSubjectRequest is the request body for adding a subject
type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// CreateWordRequest is the request body for adding a word
type CreateWordRequest struct {
	SubjectID string `json:"subject_id"`
	Text      string `json:"text"`
	Hint      string `json:"hint,omitempty"`
}

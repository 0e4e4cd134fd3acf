package model

import "time"

// AdminID uniquely identifies an administrator
type AdminID string

// Admin is the persisted administrator record
type Admin struct {
	ID           AdminID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Package models defines the records persisted by the server.
package models

import "time"

// User is an account. PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Package models holds the client-side view of Venus API resources.
package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is what register and login return: the account and a fresh token.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ProjectSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	UID       int64           `json:"uid"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Image struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Width        *int64    `json:"width"`
	Height       *int64    `json:"height"`
	ProjectID    *string   `json:"project_id"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}

package rest

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/venus/internal/server/models"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type projectSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type projectResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	UID       int64           `json:"uid"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Content:   p.Content,
		UID:       p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type createProjectRequest struct {
	Name string `json:"name"`
}

type updateProjectRequest struct {
	Content json.RawMessage `json:"content"`
}

type imageResponse struct {
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

func toImageResponse(img *models.Image) imageResponse {
	return imageResponse{
		ID:           img.ID,
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		MimeType:     img.MimeType,
		Size:         img.Size,
		Width:        img.Width,
		Height:       img.Height,
		ProjectID:    img.ProjectID,
		URL:          "/api/images/" + img.ID,
		CreatedAt:    img.CreatedAt,
	}
}

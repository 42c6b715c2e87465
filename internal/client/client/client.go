package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/venus/internal/client/models"
)

// Client is the API surface used by the CLI.
type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error

	Register(ctx context.Context, username, email, password string) (*models.Session, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)

	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListImages(ctx context.Context) ([]models.Image, error)
	UploadImage(ctx context.Context, name string, r io.Reader, projectID string) (*models.Image, error)
}

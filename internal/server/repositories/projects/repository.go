// Package projects persists user-owned JSON documents. Every query that reads
// or mutates a single project is filtered by both id and owner.
package projects

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/venus/internal/server/models"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.ProjectSummary, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*models.Project, error)
	// UpdateContent and Delete return common.ErrorNotFound when no row
	// matched (id, owner).
	UpdateContent(ctx context.Context, id string, ownerID int64, content json.RawMessage, updatedAt time.Time) error
	Delete(ctx context.Context, id string, ownerID int64) error
}

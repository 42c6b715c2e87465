// Package images persists uploaded image metadata.
package images

import (
	"context"

	"github.com/dmitrijs2005/venus/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, img *models.Image) (*models.Image, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Image, error)
	// GetByID looks an image up by its id alone. Callers must check
	// UploadedBy against the caller before using the result.
	GetByID(ctx context.Context, id string) (*models.Image, error)
	GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*models.Image, error)
	Delete(ctx context.Context, id string, ownerID int64) error
}

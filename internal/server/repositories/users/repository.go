// Package users persists accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/venus/internal/server/models"
)

type Repository interface {
	// Create inserts u and fills in its ID. A duplicate username or email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

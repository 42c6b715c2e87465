// Package repomanager vends repositories bound to a *sql.DB or *sql.Tx and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/server/repositories/images"
	"github.com/dmitrijs2005/venus/internal/server/repositories/projects"
	"github.com/dmitrijs2005/venus/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Images(db dbx.DBTX) images.Repository
}

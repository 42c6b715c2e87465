package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/server/migrations"
	"github.com/dmitrijs2005/venus/internal/server/repositories/images"
	"github.com/dmitrijs2005/venus/internal/server/repositories/projects"
	"github.com/dmitrijs2005/venus/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves both supported dialects; only the migration
// set and the goose dialect differ.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Images(db dbx.DBTX) images.Repository {
	return images.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func gooseDialect(d dbx.Dialect) (goose.Dialect, error) {
	switch d {
	case dbx.DialectPostgres:
		return goose.DialectPostgres, nil
	case dbx.DialectSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := migrations.For(string(m.dialect))
	if err != nil {
		return err
	}
	dialect, err := gooseDialect(m.dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewSQLRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	if _, err := gooseDialect(dialect); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}

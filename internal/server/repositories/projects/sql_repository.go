package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.ProjectSummary, error) {
	query :=
		`SELECT id, name FROM projects
		 WHERE uid = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ProjectSummary, 0)
	for rows.Next() {
		var s models.ProjectSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (id, name, content, uid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, string(p.Content), p.OwnerID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *SQLRepository) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*models.Project, error) {
	query :=
		`SELECT id, name, content, uid, created_at, updated_at FROM projects
		 WHERE id = $1 AND uid = $2`

	p := &models.Project{}
	var content []byte
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&p.ID, &p.Name, &content, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Content = normalizeContent(content)
	return p, nil
}

func (r *SQLRepository) UpdateContent(ctx context.Context, id string, ownerID int64, content json.RawMessage, updatedAt time.Time) error {
	query :=
		`UPDATE projects SET content = $1, updated_at = $2
		 WHERE id = $3 AND uid = $4`

	res, err := r.db.ExecContext(ctx, query, string(content), updatedAt, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, id string, ownerID int64) error {
	query := `DELETE FROM projects WHERE id = $1 AND uid = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// normalizeContent falls back to an empty object for rows holding invalid JSON.
func normalizeContent(b []byte) json.RawMessage {
	if !json.Valid(b) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(b)
}

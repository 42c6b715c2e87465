package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const imageColumns = `id, filename, original_name, mime_type, size, width, height, project_id, uploaded_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(s rowScanner) (*models.Image, error) {
	var (
		img       models.Image
		width     sql.NullInt64
		height    sql.NullInt64
		projectID sql.NullString
	)
	err := s.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.MimeType, &img.Size,
		&width, &height, &projectID, &img.UploadedBy, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	if width.Valid {
		img.Width = &width.Int64
	}
	if height.Valid {
		img.Height = &height.Int64
	}
	if projectID.Valid {
		img.ProjectID = &projectID.String
	}
	return &img, nil
}

func (r *SQLRepository) Create(ctx context.Context, img *models.Image) (*models.Image, error) {
	query :=
		`INSERT INTO images (` + imageColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.Filename, img.OriginalName, img.MimeType, img.Size,
		img.Width, img.Height, img.ProjectID, img.UploadedBy, img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return img, nil
}

func (r *SQLRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Image, error) {
	query :=
		`SELECT ` + imageColumns + ` FROM images
		 WHERE uploaded_by = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Image, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	return r.getOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1 AND uploaded_by = $2`
	return r.getOne(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *SQLRepository) Delete(ctx context.Context, id string, ownerID int64) error {
	query := `DELETE FROM images WHERE id = $1 AND uploaded_by = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) getOne(row *sql.Row) (*models.Image, error) {
	img, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return img, nil
}

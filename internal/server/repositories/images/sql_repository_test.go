package images

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

var (
	ts   = time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	cols = []string{"id", "filename", "original_name", "mime_type", "size", "width", "height", "project_id", "uploaded_by", "created_at"}
)

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	projectID := "p1"
	img := &models.Image{
		ID: "i1", Filename: "i1.png", OriginalName: "cat.png", MimeType: "image/png", Size: 12,
		ProjectID: &projectID, UploadedBy: 3, CreatedAt: ts,
	}

	q := `(?s)^INSERT\s+INTO\s+images\s*\(id,\s*filename,.*created_at\)\s*VALUES\s*\(\$1,.*\$10\)$`
	mock.ExpectExec(q).
		WithArgs("i1", "i1.png", "cat.png", "image/png", int64(12), nil, nil, "p1", int64(3), ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), img)
	require.NoError(t, err)
	assert.Same(t, img, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`INSERT\s+INTO\s+images`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Image{ID: "i1"})
	assert.ErrorContains(t, err, "db error: fk violation")
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,.*\s+FROM\s+images\s+WHERE\s+uploaded_by\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(cols).
		AddRow("i2", "i2.jpg", "b.jpg", "image/jpeg", int64(5), int64(640), int64(480), "p1", int64(3), ts).
		AddRow("i1", "i1.bin", "a", "application/octet-stream", int64(1), nil, nil, nil, int64(3), ts))

	got, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "i2", got[0].ID)
	require.NotNil(t, got[0].Width)
	assert.Equal(t, int64(640), *got[0].Width)
	require.NotNil(t, got[0].ProjectID)
	assert.Equal(t, "p1", *got[0].ProjectID)

	assert.Nil(t, got[1].Width)
	assert.Nil(t, got[1].Height)
	assert.Nil(t, got[1].ProjectID)
}

func TestGetByID_And_GetByIDAndOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	byID := `(?s)FROM\s+images\s+WHERE\s+id\s*=\s*\$1$`
	byOwner := `(?s)FROM\s+images\s+WHERE\s+id\s*=\s*\$1\s+AND\s+uploaded_by\s*=\s*\$2$`

	mock.ExpectQuery(byID).WithArgs("i1").WillReturnRows(sqlmock.NewRows(cols).
		AddRow("i1", "i1.png", "a.png", "image/png", int64(3), nil, nil, nil, int64(7), ts))
	img, err := repo.GetByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), img.UploadedBy)

	mock.ExpectQuery(byID).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(byOwner).WithArgs("i1", int64(8)).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByIDAndOwner(context.Background(), "i1", 8)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(byOwner).WithArgs("i1", int64(7)).WillReturnError(errors.New("timeout"))
	_, err = repo.GetByIDAndOwner(context.Background(), "i1", 7)
	assert.ErrorContains(t, err, "db error: timeout")
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+images\s+WHERE\s+id\s*=\s*\$1\s+AND\s+uploaded_by\s*=\s*\$2$`

	mock.ExpectExec(q).WithArgs("i1", int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "i1", 7))

	mock.ExpectExec(q).WithArgs("i1", int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "i1", 8), common.ErrorNotFound)
}

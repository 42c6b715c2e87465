package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/server/models"
	"github.com/dmitrijs2005/venus/internal/server/repositories/images"
	"github.com/dmitrijs2005/venus/internal/server/repositories/projects"
	"github.com/dmitrijs2005/venus/internal/server/repositories/users"
	"github.com/dmitrijs2005/venus/internal/server/storage"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	c := *u
	c.ID = f.nextID
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, x := range f.byID {
		if x.Username == username {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeUsersRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Username == username || x.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- projects ---

type fakeProjectsRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Project
	err  error
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{byID: map[string]*models.Project{}}
}

func (f *fakeProjectsRepo) ListByOwner(_ context.Context, ownerID int64) ([]models.ProjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var ps []*models.Project
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	out := []models.ProjectSummary{}
	for _, p := range ps {
		out = append(out, models.ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (f *fakeProjectsRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c := *p
	f.byID[p.ID] = &c
	return p, nil
}

func (f *fakeProjectsRepo) GetByIDAndOwner(_ context.Context, id string, ownerID int64) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProjectsRepo) UpdateContent(_ context.Context, id string, ownerID int64, content json.RawMessage, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	p.Content = content
	p.UpdatedAt = updatedAt
	return nil
}

func (f *fakeProjectsRepo) Delete(_ context.Context, id string, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- images ---

type fakeImagesRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.Image
	createErr error
}

func newFakeImagesRepo() *fakeImagesRepo {
	return &fakeImagesRepo{byID: map[string]*models.Image{}}
}

func (f *fakeImagesRepo) Create(_ context.Context, img *models.Image) (*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *img
	f.byID[img.ID] = &c
	return img, nil
}

func (f *fakeImagesRepo) ListByOwner(_ context.Context, ownerID int64) ([]*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Image{}
	for _, x := range f.byID {
		if x.UploadedBy == ownerID {
			c := *x
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeImagesRepo) GetByID(_ context.Context, id string) (*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeImagesRepo) GetByIDAndOwner(ctx context.Context, id string, ownerID int64) (*models.Image, error) {
	img, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img.UploadedBy != ownerID {
		return nil, common.ErrorNotFound
	}
	return img, nil
}

func (f *fakeImagesRepo) Delete(_ context.Context, id string, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	x, ok := f.byID[id]
	if !ok || x.UploadedBy != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProjectsRepo
	i *fakeImagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), p: newFakeProjectsRepo(), i: newFakeImagesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Projects(dbx.DBTX) projects.Repository         { return m.p }
func (m *fakeRepoManager) Images(dbx.DBTX) images.Repository             { return m.i }

// --- blobs ---

type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = b
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, name string) (*storage.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &storage.Blob{Body: io.NopCloser(bytes.NewReader(b)), Size: int64(len(b))}, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.objects[name]; !ok {
		return common.ErrorNotFound
	}
	delete(f.objects, name)
	return nil
}


package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/server/models"
	"github.com/dmitrijs2005/venus/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProjectService works on the caller's projects only; every repository call
// carries the owner id.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{
		db:          db,
		repomanager: m,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *ProjectService) List(ctx context.Context, ownerID int64) ([]models.ProjectSummary, error) {
	list, err := s.repomanager.Projects(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return list, nil
}

// Create starts a project with the empty scene.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if err := validationError(projectInput{Name: name}.Validate()); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &models.Project{
		ID:        s.newID(),
		Name:      name,
		Content:   json.RawMessage(models.DefaultProjectContent),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	p, err := s.repomanager.Projects(s.db).Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return p, nil
}

// Get returns common.ErrorNotFound both for missing projects and for projects
// of other users.
func (s *ProjectService) Get(ctx context.Context, ownerID int64, id string) (*models.Project, error) {
	p, err := s.repomanager.Projects(s.db).GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, wrapNotFound("error loading project", err)
	}
	return p, nil
}

// UpdateContent replaces the document. content must be a JSON value.
func (s *ProjectService) UpdateContent(ctx context.Context, ownerID int64, id string, content json.RawMessage) error {
	if len(content) == 0 || !json.Valid(content) {
		return fmt.Errorf("%w: content must be valid JSON", common.ErrorValidation)
	}

	err := s.repomanager.Projects(s.db).UpdateContent(ctx, id, ownerID, content, s.now().UTC())
	if err != nil {
		return wrapNotFound("error updating project", err)
	}
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, ownerID int64, id string) error {
	if err := s.repomanager.Projects(s.db).Delete(ctx, id, ownerID); err != nil {
		return wrapNotFound("error deleting project", err)
	}
	return nil
}

// wrapNotFound passes not-found through untouched so callers can map it.
func wrapNotFound(msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

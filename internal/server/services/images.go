package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
	"github.com/dmitrijs2005/venus/internal/server/models"
	"github.com/dmitrijs2005/venus/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/venus/internal/server/storage"
	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

// UploadObserver is told the size of every accepted upload.
type UploadObserver interface {
	RecordUpload(size int64)
}

// ImageUpload is one file received from a client.
type ImageUpload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
	ProjectID    string
}

type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	logger      logging.Logger
	observer    UploadObserver
	now         func() time.Time
	newID       func() string
}

// NewImageService wires the service. observer may be nil.
func NewImageService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, logger logging.Logger, observer UploadObserver) *ImageService {
	return &ImageService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger,
		observer:    observer,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Upload stores the bytes and records the metadata. A ProjectID that does
// not name one of the caller's projects is common.ErrorNotFound.
func (s *ImageService) Upload(ctx context.Context, ownerID int64, up ImageUpload) (*models.Image, error) {
	if up.Body == nil {
		return nil, fmt.Errorf("%w: image is required", common.ErrorValidation)
	}

	var projectID *string
	if pid := strings.TrimSpace(up.ProjectID); pid != "" {
		if _, err := s.repomanager.Projects(s.db).GetByIDAndOwner(ctx, pid, ownerID); err != nil {
			return nil, wrapNotFound("error checking project", err)
		}
		projectID = &pid
	}

	originalName := up.OriginalName
	if originalName == "" {
		originalName = "unknown"
	}
	mimeType := up.ContentType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	id := s.newID()
	img := &models.Image{
		ID:           id,
		Filename:     storage.NewBlobName(id, originalName),
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         up.Size,
		ProjectID:    projectID,
		UploadedBy:   ownerID,
		CreatedAt:    s.now().UTC(),
	}
	img.Width, img.Height = dimensions(up.Body, mimeType)

	if err := s.blobs.Put(ctx, img.Filename, up.Body, up.Size, mimeType); err != nil {
		return nil, fmt.Errorf("error storing image: %w", err)
	}

	created, err := s.repomanager.Images(s.db).Create(ctx, img)
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), img.Filename); derr != nil {
			s.logger.Error(ctx, "orphaned blob after failed insert", "filename", img.Filename, "error", derr)
		}
		return nil, fmt.Errorf("error creating image: %w", err)
	}

	if s.observer != nil {
		s.observer.RecordUpload(up.Size)
	}

	return created, nil
}

func (s *ImageService) List(ctx context.Context, ownerID int64) ([]*models.Image, error) {
	list, err := s.repomanager.Images(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing images: %w", err)
	}
	return list, nil
}

// Open loads an image by id and opens its bytes. Images of other users are
// reported as common.ErrorNotFound. The caller closes blob.Body.
func (s *ImageService) Open(ctx context.Context, ownerID int64, id string) (*models.Image, *storage.Blob, error) {
	img, err := s.repomanager.Images(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, wrapNotFound("error loading image", err)
	}
	if err := auth.CheckOwner(ownerID, img.UploadedBy); err != nil {
		return nil, nil, err
	}

	blob, err := s.blobs.Get(ctx, img.Filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "image row without blob", "image_id", img.ID, "filename", img.Filename)
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error opening image: %w", err)
	}

	return img, blob, nil
}

// Delete removes the row, then the blob. A failure to remove the blob is
// logged and not returned: the image is already gone for the user.
func (s *ImageService) Delete(ctx context.Context, ownerID int64, id string) error {
	repo := s.repomanager.Images(s.db)

	img, err := repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return wrapNotFound("error loading image", err)
	}
	if err := repo.Delete(ctx, id, ownerID); err != nil {
		return wrapNotFound("error deleting image", err)
	}

	if err := s.blobs.Delete(ctx, img.Filename); err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "failed to remove image blob", "image_id", id, "filename", img.Filename, "error", err)
	}
	return nil
}

// dimensions reads the image header when the body can be rewound. Anything
// that does not decode gets nil width and height.
func dimensions(body io.Reader, mimeType string) (*int64, *int64) {
	rs, ok := body.(io.ReadSeeker)
	if !ok || !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	cfg, _, err := image.DecodeConfig(rs)
	if _, serr := rs.Seek(0, io.SeekStart); serr != nil {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}

	w, h := int64(cfg.Width), int64(cfg.Height)
	return &w, &h
}

package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadCounter struct{ total int64 }

func (u *uploadCounter) RecordUpload(n int64) { u.total += n }

func newTestImageService(t *testing.T, rm *fakeRepoManager, blobs *fakeBlobStore, obs UploadObserver) *ImageService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewImageService(db, rm, blobs, logging.Nop{}, obs)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_UploadOpenDelete(t *testing.T) {
	rm := newFakeRepoManager()
	blobs := newFakeBlobStore()
	obs := &uploadCounter{}
	s := newTestImageService(t, rm, blobs, obs)
	ctx := context.Background()

	data := pngBytes(t, 3, 2)
	img, err := s.Upload(ctx, 1, ImageUpload{
		OriginalName: "shot.PNG",
		ContentType:  "image/png",
		Size:         int64(len(data)),
		Body:         bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.Equal(t, img.ID+".png", img.Filename)
	assert.Equal(t, int64(1), img.UploadedBy)
	require.NotNil(t, img.Width)
	assert.Equal(t, int64(3), *img.Width)
	assert.Equal(t, int64(2), *img.Height)
	assert.Nil(t, img.ProjectID)
	assert.Equal(t, data, blobs.objects[img.Filename], "dimension probe must rewind the body")
	assert.Equal(t, int64(len(data)), obs.total)

	meta, blob, err := s.Open(ctx, 1, img.ID)
	require.NoError(t, err)
	got, _ := io.ReadAll(blob.Body)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/png", meta.MimeType)

	require.NoError(t, s.Delete(ctx, 1, img.ID))
	assert.Empty(t, blobs.objects)
	_, _, err = s.Open(ctx, 1, img.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestImageService_OpenOtherOwnerIsNotFound(t *testing.T) {
	rm := newFakeRepoManager()
	s := newTestImageService(t, rm, newFakeBlobStore(), nil)
	ctx := context.Background()

	img, err := s.Upload(ctx, 1, ImageUpload{OriginalName: "a.txt", Body: strings.NewReader("x"), Size: 1})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", img.MimeType)
	assert.Nil(t, img.Width)

	_, _, err = s.Open(ctx, 2, img.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 2, img.ID), common.ErrorNotFound)

	_, err = rm.i.GetByID(ctx, img.ID)
	require.NoError(t, err)
}

func TestImageService_Upload_ProjectMustBelongToCaller(t *testing.T) {
	rm := newFakeRepoManager()
	rm.p.byID["p1"] = &models.Project{ID: "p1", OwnerID: 2}
	rm.p.byID["p2"] = &models.Project{ID: "p2", OwnerID: 1}
	blobs := newFakeBlobStore()
	s := newTestImageService(t, rm, blobs, nil)
	ctx := context.Background()

	_, err := s.Upload(ctx, 1, ImageUpload{OriginalName: "a.png", Body: strings.NewReader("x"), ProjectID: "p1"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, blobs.objects)

	img, err := s.Upload(ctx, 1, ImageUpload{OriginalName: "a.png", Body: strings.NewReader("x"), ProjectID: "p2"})
	require.NoError(t, err)
	require.NotNil(t, img.ProjectID)
	assert.Equal(t, "p2", *img.ProjectID)
}

func TestImageService_Upload_InsertFailureRemovesBlob(t *testing.T) {
	rm := newFakeRepoManager()
	rm.i.createErr = errBoom{}
	blobs := newFakeBlobStore()
	s := newTestImageService(t, rm, blobs, nil)

	_, err := s.Upload(context.Background(), 1, ImageUpload{OriginalName: "a.gif", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Empty(t, blobs.objects)
	assert.Len(t, blobs.deleted, 1)
}

func TestImageService_Upload_StoreFailure(t *testing.T) {
	rm := newFakeRepoManager()
	blobs := newFakeBlobStore()
	blobs.putErr = errBoom{}
	s := newTestImageService(t, rm, blobs, nil)

	_, err := s.Upload(context.Background(), 1, ImageUpload{OriginalName: "a.gif", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Empty(t, rm.i.byID)
}

func TestImageService_Upload_NoBody(t *testing.T) {
	s := newTestImageService(t, newFakeRepoManager(), newFakeBlobStore(), nil)
	_, err := s.Upload(context.Background(), 1, ImageUpload{OriginalName: "a.png"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestImageService_Delete_BlobFailureIsNotReturned(t *testing.T) {
	rm := newFakeRepoManager()
	blobs := newFakeBlobStore()
	s := newTestImageService(t, rm, blobs, nil)
	ctx := context.Background()

	img, err := s.Upload(ctx, 1, ImageUpload{OriginalName: "a.png", Body: strings.NewReader("x")})
	require.NoError(t, err)

	blobs.deleteErr = errBoom{}
	require.NoError(t, s.Delete(ctx, 1, img.ID))
	assert.Empty(t, rm.i.byID)
}

func TestImageService_List(t *testing.T) {
	rm := newFakeRepoManager()
	s := newTestImageService(t, rm, newFakeBlobStore(), nil)
	ctx := context.Background()

	_, err := s.Upload(ctx, 1, ImageUpload{OriginalName: "a.png", Body: strings.NewReader("x")})
	require.NoError(t, err)
	_, err = s.Upload(ctx, 2, ImageUpload{OriginalName: "b.png", Body: strings.NewReader("y")})
	require.NoError(t, err)

	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a.png", list[0].OriginalName)
}

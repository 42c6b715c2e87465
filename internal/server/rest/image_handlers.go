package rest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	imageField     = "image"
	projectIDField = "project_id"
	maxFieldBytes  = 256
)

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize+multipartOverhead)

	up, err := s.readUpload(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	img, err := s.images.Upload(r.Context(), callerID(r), *up)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toImageResponse(img))
}

// readUpload streams the multipart body. The image part is buffered so it can
// be size-checked, probed for dimensions and handed to any BlobStore; the
// project_id field may come before or after it.
func (s *Server) readUpload(r *http.Request) (*services.ImageUpload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart/form-data", common.ErrorValidation)
	}

	up := &services.ImageUpload{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, uploadReadError(err)
		}

		switch part.FormName() {
		case projectIDField:
			b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			if err != nil {
				return nil, uploadReadError(err)
			}
			up.ProjectID = string(b)
		case imageField:
			if up.Body != nil {
				continue
			}
			if err := s.readImagePart(part, up); err != nil {
				return nil, err
			}
		}
		_ = part.Close()
	}

	if up.Body == nil {
		return nil, fmt.Errorf("%w: missing %q field", common.ErrorValidation, imageField)
	}
	return up, nil
}

func (s *Server) readImagePart(part *multipart.Part, up *services.ImageUpload) error {
	data, err := io.ReadAll(io.LimitReader(part, s.opts.MaxUploadSize+1))
	if err != nil {
		return uploadReadError(err)
	}
	if int64(len(data)) > s.opts.MaxUploadSize {
		return common.ErrorTooLarge
	}

	ct := part.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}

	up.OriginalName = part.FileName()
	up.ContentType = ct
	up.Size = int64(len(data))
	up.Body = bytes.NewReader(data)
	return nil
}

func uploadReadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return common.ErrorTooLarge
	}
	return fmt.Errorf("%w: malformed multipart body", common.ErrorValidation)
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	list, err := s.images.List(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	out := make([]imageResponse, 0, len(list))
	for _, img := range list {
		out = append(out, toImageResponse(img))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	img, blob, err := s.images.Open(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	defer blob.Body.Close()

	h := w.Header()
	h.Set("Content-Type", img.MimeType)
	h.Set("Cache-Control", imageCacheControl)
	h.Set("X-Content-Type-Options", "nosniff")
	if blob.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		s.logger.Warn(r.Context(), "image stream interrupted", "image_id", img.ID, "error", err)
	}
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	if err := s.images.Delete(r.Context(), callerID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

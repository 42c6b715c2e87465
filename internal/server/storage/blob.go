// Package storage keeps uploaded image bytes. The metadata lives in the
// database; a BlobStore only knows names and bytes.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Blob is an open stored object. The caller closes Body.
type Blob struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// BlobStore persists opaque blobs by name. Get and Delete report a missing
// blob as common.ErrorNotFound.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Blob, error)
	Delete(ctx context.Context, name string) error
}

// NewBlobName returns "<uuid>.<ext>" with ext taken from originalName, or
// "bin" when it has none.
func NewBlobName(id, originalName string) string {
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	ext = strings.ToLower(ext)
	if ext == "" || !isSafeExt(ext) {
		ext = "bin"
	}
	if id == "" {
		id = uuid.NewString()
	}
	return id + "." + ext
}

func isSafeExt(ext string) bool {
	if len(ext) > 10 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validName rejects anything that could escape the store's namespace.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}

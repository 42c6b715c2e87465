package models

import "time"

// Image is the metadata of an uploaded picture. The bytes live in blob
// storage under Filename. UploadedBy is the owner.
type Image struct {
	ID           string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Width        *int64
	Height       *int64
	ProjectID    *string
	UploadedBy   int64
	CreatedAt    time.Time
}

package models

import (
	"encoding/json"
	"time"
)

// DefaultProjectContent is the empty Excalidraw scene a new project starts with.
const DefaultProjectContent = `{"elements":[],"appState":{"collaborators":[]},"files":{}}`

// Project is a user-owned JSON document. OwnerID is fixed at creation.
type Project struct {
	ID        string
	Name      string
	Content   json.RawMessage
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectSummary is the listing view of a project.
type ProjectSummary struct {
	ID   string
	Name string
}

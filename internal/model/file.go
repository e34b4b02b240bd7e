package model

import "time"

// File represents an uploaded PDF stored in the blob store.
// This is a pure domain model with no database-specific dependencies or tags.
type File struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FolderID    *string   `json:"folder_id"`
	OwnerID     string    `json:"owner_id"`
	StoragePath string    `json:"storage_path"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package repository

import (
	"context"
	"time"

	"dataroom/internal/model"
)

// FileRepository defines data access for file records. Blob contents live in storage.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns the file owned by ownerID, or ErrNotFound.
	FindByID(ctx context.Context, id, ownerID string) (*model.File, error)

	// ListByFolder returns files directly inside folderID (nil = root level) ordered by name.
	ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]model.File, error)

	// ListAll returns every file of the owner ordered by name.
	ListAll(ctx context.Context, ownerID string) ([]model.File, error)

	// FindByName returns files in folderID whose name matches exactly.
	FindByName(ctx context.Context, ownerID string, folderID *string, name string) ([]model.File, error)

	// SearchByName returns files whose name contains the LIKE-escaped pattern, case-insensitively.
	SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.File, error)

	// Rename sets name and updated_at. Returns ErrNotFound when nothing was updated.
	Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error

	// Delete removes a file record. Returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id, ownerID string) error
}

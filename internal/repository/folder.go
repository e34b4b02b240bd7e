package repository

import (
	"context"
	"time"

	"dataroom/internal/model"
)

// FolderRepository defines data access for folders using SQL queries only.
// Every method is scoped by owner; a folder owned by someone else behaves as missing.
type FolderRepository interface {
	// Create inserts a new folder. A sibling name collision returns ErrDuplicate.
	Create(ctx context.Context, f *model.Folder) (*model.Folder, error)

	// FindByID returns the folder with the given id owned by ownerID, or ErrNotFound.
	FindByID(ctx context.Context, id, ownerID string) (*model.Folder, error)

	// FindSibling returns a folder named name under parentID (nil = root level),
	// ignoring excludeID when non-empty. Returns ErrNotFound if there is none.
	FindSibling(ctx context.Context, ownerID string, parentID *string, name, excludeID string) (*model.Folder, error)

	// ListChildren returns the immediate children of parentID (nil = root level) ordered by name.
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]model.Folder, error)

	// ListAll returns every folder of the owner ordered by name.
	ListAll(ctx context.Context, ownerID string) ([]model.Folder, error)

	// SearchByName returns folders whose name contains the LIKE-escaped pattern, case-insensitively.
	SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.Folder, error)

	// Rename sets name and updated_at. Returns ErrNotFound when nothing was updated.
	Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error

	// Delete removes the folder row. Descendant folders, their files and share links
	// are removed by the schema's ON DELETE CASCADE. Returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id, ownerID string) error
}

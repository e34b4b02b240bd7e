package repository

import (
	"context"

	"dataroom/internal/model"
)

// SharedLinkRepository defines data access for share links.
type SharedLinkRepository interface {
	// Create inserts a link. A second link for the same owner and folder returns ErrDuplicate.
	Create(ctx context.Context, l *model.SharedLink) (*model.SharedLink, error)

	// FindByToken looks a link up by its token regardless of owner.
	FindByToken(ctx context.Context, token string) (*model.SharedLink, error)

	// FindByFolder returns the owner's link for folderID, or ErrNotFound.
	FindByFolder(ctx context.Context, folderID, ownerID string) (*model.SharedLink, error)

	// DeleteByFolder removes the owner's links for folderID. Deleting nothing is not an error.
	DeleteByFolder(ctx context.Context, folderID, ownerID string) error
}

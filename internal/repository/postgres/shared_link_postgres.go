package postgres

import (
	"context"
	"database/sql"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// SharedLinkPostgres is a PostgreSQL implementation of repository.SharedLinkRepository.
type SharedLinkPostgres struct {
	db *sql.DB
}

// NewSharedLinkPostgres creates a new SharedLinkPostgres repository.
func NewSharedLinkPostgres(db *sql.DB) *SharedLinkPostgres {
	return &SharedLinkPostgres{db: db}
}

var _ repository.SharedLinkRepository = (*SharedLinkPostgres)(nil)

const sharedLinkColumns = `token, folder_id, owner_id, owner_email, created_at, expires_at`

func scanSharedLink(row rowScanner) (*model.SharedLink, error) {
	var l model.SharedLink
	if err := row.Scan(
		&l.Token,
		&l.FolderID,
		&l.OwnerID,
		&l.OwnerEmail,
		&l.CreatedAt,
		&l.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a link row.
func (r *SharedLinkPostgres) Create(ctx context.Context, l *model.SharedLink) (*model.SharedLink, error) {
	const q = `
		INSERT INTO shared_links (token, folder_id, owner_id, owner_email, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sharedLinkColumns
	var expires any
	if l.ExpiresAt != nil {
		expires = *l.ExpiresAt
	}
	out, err := scanSharedLink(r.db.QueryRowContext(ctx, q,
		l.Token,
		l.FolderID,
		l.OwnerID,
		l.OwnerEmail,
		l.CreatedAt,
		expires,
	))
	if err != nil {
		return nil, mapError("insert shared link", err)
	}
	return out, nil
}

// FindByToken looks up a link by token.
func (r *SharedLinkPostgres) FindByToken(ctx context.Context, token string) (*model.SharedLink, error) {
	const q = `SELECT ` + sharedLinkColumns + ` FROM shared_links WHERE token = $1`
	l, err := scanSharedLink(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		return nil, mapError("find shared link", err)
	}
	return l, nil
}

// FindByFolder returns the owner's link for a folder.
func (r *SharedLinkPostgres) FindByFolder(ctx context.Context, folderID, ownerID string) (*model.SharedLink, error) {
	const q = `
		SELECT ` + sharedLinkColumns + `
		FROM shared_links
		WHERE folder_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	l, err := scanSharedLink(r.db.QueryRowContext(ctx, q, folderID, ownerID))
	if err != nil {
		return nil, mapError("find shared link by folder", err)
	}
	return l, nil
}

// DeleteByFolder removes all of the owner's links for a folder.
func (r *SharedLinkPostgres) DeleteByFolder(ctx context.Context, folderID, ownerID string) error {
	const q = `DELETE FROM shared_links WHERE folder_id = $1 AND owner_id = $2`
	if _, err := r.db.ExecContext(ctx, q, folderID, ownerID); err != nil {
		return mapError("delete shared link", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, name, parent_id, owner_id, created_at, updated_at`

func scanFolder(row rowScanner) (*model.Folder, error) {
	var f model.Folder
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.ParentID,
		&f.OwnerID,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FolderPostgres) queryFolders(ctx context.Context, op, q string, args ...any) ([]model.Folder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return items, nil
}

// Create inserts a new folder row and returns the stored record.
func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (id, name, parent_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, parent_id, owner_id, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		nullable(f.ParentID),
		f.OwnerID,
		f.CreatedAt,
		f.UpdatedAt,
	)
	out, err := scanFolder(row)
	if err != nil {
		return nil, mapError("insert folder", err)
	}
	return out, nil
}

// FindByID fetches a single folder by id, scoped to its owner.
func (r *FolderPostgres) FindByID(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE id = $1 AND owner_id = $2
	`
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		return nil, mapError("find folder", err)
	}
	return f, nil
}

// FindSibling looks up a folder by exact name under the given parent.
func (r *FolderPostgres) FindSibling(ctx context.Context, ownerID string, parentID *string, name, excludeID string) (*model.Folder, error) {
	var q string
	args := []any{ownerID, name}

	if parentID == nil {
		q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND name = $2 AND parent_id IS NULL`
	} else {
		q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND name = $2 AND parent_id = $3`
		args = append(args, *parentID)
	}
	if excludeID != "" {
		args = append(args, excludeID)
		q += ` AND id <> $` + placeholder(len(args))
	}
	q += ` LIMIT 1`

	f, err := scanFolder(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, mapError("find sibling folder", err)
	}
	return f, nil
}

// ListChildren lists immediate child folders ordered by name.
func (r *FolderPostgres) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]model.Folder, error) {
	if parentID == nil {
		const q = `
			SELECT ` + folderColumns + `
			FROM folders
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`
		return r.queryFolders(ctx, "list folder children", q, ownerID)
	}

	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY name ASC
	`
	return r.queryFolders(ctx, "list folder children", q, ownerID, *parentID)
}

// ListAll returns all folders of an owner as a flat list.
func (r *FolderPostgres) ListAll(ctx context.Context, ownerID string) ([]model.Folder, error) {
	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1
		ORDER BY name ASC
	`
	return r.queryFolders(ctx, "list folders", q, ownerID)
}

// SearchByName performs a case-insensitive substring match on folder names.
func (r *FolderPostgres) SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.Folder, error) {
	const q = `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY name ASC
		LIMIT $3
	`
	return r.queryFolders(ctx, "search folders", q, ownerID, pattern, limit)
}

// Rename updates the folder name.
func (r *FolderPostgres) Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error {
	const q = `
		UPDATE folders
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`
	res, err := r.db.ExecContext(ctx, q, name, updatedAt, id, ownerID)
	if err != nil {
		return mapError("rename folder", err)
	}
	return requireAffected("rename folder", res)
}

// Delete removes a folder; the schema cascades to descendants, files and share links.
func (r *FolderPostgres) Delete(ctx context.Context, id, ownerID string) error {
	const q = `DELETE FROM folders WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return mapError("delete folder", err)
	}
	return requireAffected("delete folder", res)
}

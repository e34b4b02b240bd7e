package postgres

import (
	"context"
	"database/sql"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, name, folder_id, owner_id, storage_path, size_bytes, content_type, created_at, updated_at`

func scanFile(row rowScanner) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.FolderID,
		&f.OwnerID,
		&f.StoragePath,
		&f.SizeBytes,
		&f.ContentType,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FilePostgres) queryFiles(ctx context.Context, op, q string, args ...any) ([]model.File, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
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

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, name, folder_id, owner_id, storage_path, size_bytes, content_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		nullable(f.FolderID),
		f.OwnerID,
		f.StoragePath,
		f.SizeBytes,
		f.ContentType,
		f.CreatedAt,
		f.UpdatedAt,
	)
	out, err := scanFile(row)
	if err != nil {
		return nil, mapError("insert file", err)
	}
	return out, nil
}

// FindByID fetches a single file by id, scoped to its owner.
func (r *FilePostgres) FindByID(ctx context.Context, id, ownerID string) (*model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1 AND owner_id = $2
	`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		return nil, mapError("find file", err)
	}
	return f, nil
}

// ListByFolder lists files directly inside a folder ordered by name.
func (r *FilePostgres) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]model.File, error) {
	if folderID == nil {
		const q = `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`
		return r.queryFiles(ctx, "list files", q, ownerID)
	}

	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND folder_id = $2
		ORDER BY name ASC
	`
	return r.queryFiles(ctx, "list files", q, ownerID, *folderID)
}

// ListAll returns every file of an owner.
func (r *FilePostgres) ListAll(ctx context.Context, ownerID string) ([]model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1
		ORDER BY name ASC
	`
	return r.queryFiles(ctx, "list all files", q, ownerID)
}

// FindByName returns same-named files in a folder; names are not unique.
func (r *FilePostgres) FindByName(ctx context.Context, ownerID string, folderID *string, name string) ([]model.File, error) {
	if folderID == nil {
		const q = `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_id = $1 AND folder_id IS NULL AND name = $2
			ORDER BY created_at ASC
		`
		return r.queryFiles(ctx, "find files by name", q, ownerID, name)
	}

	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND folder_id = $2 AND name = $3
		ORDER BY created_at ASC
	`
	return r.queryFiles(ctx, "find files by name", q, ownerID, *folderID, name)
}

// SearchByName performs a case-insensitive substring match on file names.
func (r *FilePostgres) SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY name ASC
		LIMIT $3
	`
	return r.queryFiles(ctx, "search files", q, ownerID, pattern, limit)
}

// Rename updates the file name.
func (r *FilePostgres) Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error {
	const q = `
		UPDATE files
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`
	res, err := r.db.ExecContext(ctx, q, name, updatedAt, id, ownerID)
	if err != nil {
		return mapError("rename file", err)
	}
	return requireAffected("rename file", res)
}

// Delete removes a file row.
func (r *FilePostgres) Delete(ctx context.Context, id, ownerID string) error {
	const q = `DELETE FROM files WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return mapError("delete file", err)
	}
	return requireAffected("delete file", res)
}

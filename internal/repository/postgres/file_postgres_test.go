package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

var fileCols = []string{"id", "name", "folder_id", "owner_id", "storage_path", "size_bytes", "content_type", "created_at", "updated_at"}

func TestFilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	f := &model.File{
		ID:          "file-1",
		Name:        "deck.pdf",
		FolderID:    strPtr("f-1"),
		OwnerID:     "u-1",
		StoragePath: "u-1/1700000000000-abc.pdf",
		SizeBytes:   123,
		ContentType: "application/pdf",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectQuery("INSERT INTO files").
		WithArgs(f.ID, f.Name, "f-1", f.OwnerID, f.StoragePath, f.SizeBytes, f.ContentType, now, now).
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow(f.ID, f.Name, "f-1", f.OwnerID, f.StoragePath, f.SizeBytes, f.ContentType, now, now))

	out, err := repo.Create(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, f.StoragePath, out.StoragePath)
	assert.Equal(t, int64(123), out.SizeBytes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM files WHERE id = \\$1 AND owner_id = \\$2").
		WithArgs("file-1", "u-1").
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow("file-1", "deck.pdf", nil, "u-1", "p", 1, "application/pdf", time.Now(), time.Now()))

	f, err := repo.FindByID(ctx, "file-1", "u-1")
	require.NoError(t, err)
	assert.Nil(t, f.FolderID)

	mock.ExpectQuery("SELECT (.+) FROM files").
		WithArgs("file-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	f, err = repo.FindByID(ctx, "file-1", "u-2")
	assert.Nil(t, f)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_ListByFolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("folder_id IS NULL ORDER BY name ASC").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow("file-1", "a.pdf", nil, "u-1", "p1", 1, "application/pdf", time.Now(), time.Now()).
			AddRow("file-2", "a.pdf", nil, "u-1", "p2", 2, "application/pdf", time.Now(), time.Now()))

	items, err := repo.ListByFolder(ctx, "u-1", nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	mock.ExpectQuery("folder_id = \\$2 ORDER BY name ASC").
		WithArgs("u-1", "f-1").
		WillReturnError(errors.New("conn reset"))

	items, err = repo.ListByFolder(ctx, "u-1", strPtr("f-1"))
	assert.Nil(t, items)
	assert.ErrorContains(t, err, "list files: conn reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_SearchByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)

	mock.ExpectQuery("name ILIKE").
		WithArgs("u-1", "deck", 50).
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow("file-1", "Deck.pdf", nil, "u-1", "p1", 1, "application/pdf", time.Now(), time.Now()))

	items, err := repo.SearchByName(context.Background(), "u-1", "deck", 50)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM files WHERE id = \\$1 AND owner_id = \\$2").
		WithArgs("file-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "file-1", "u-1"))

	mock.ExpectExec("DELETE FROM files").
		WithArgs("file-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "file-1", "u-1"), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

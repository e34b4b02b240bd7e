package handler

import (
	"time"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

// Share-scoped responses. Anonymous viewers see names, sizes and ids inside the shared
// subtree only: no owner ids, no storage keys, and no parent above the shared root.

type publicFolder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type publicFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FolderID    *string   `json:"folder_id"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type publicRoot struct {
	Folder     publicFolder `json:"folder"`
	OwnerEmail string       `json:"owner_email"`
	ExpiresAt  *time.Time   `json:"expires_at"`
}

type publicContents struct {
	RootID  string         `json:"root_id"`
	Folder  publicFolder   `json:"folder"`
	Folders []publicFolder `json:"folders"`
	Files   []publicFile   `json:"files"`
}

func newPublicFolder(f model.Folder, rootID string) publicFolder {
	out := publicFolder{ID: f.ID, Name: f.Name, ParentID: f.ParentID, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
	if f.ID == rootID {
		out.ParentID = nil
	}
	return out
}

func newPublicFolders(folders []model.Folder, rootID string) []publicFolder {
	out := make([]publicFolder, 0, len(folders))
	for _, f := range folders {
		out = append(out, newPublicFolder(f, rootID))
	}
	return out
}

func newPublicFiles(files []model.File) []publicFile {
	out := make([]publicFile, 0, len(files))
	for _, f := range files {
		out = append(out, publicFile{
			ID:          f.ID,
			Name:        f.Name,
			FolderID:    f.FolderID,
			SizeBytes:   f.SizeBytes,
			ContentType: f.ContentType,
			CreatedAt:   f.CreatedAt,
			UpdatedAt:   f.UpdatedAt,
		})
	}
	return out
}

func newPublicRoot(r *service.SharedRoot) publicRoot {
	return publicRoot{
		Folder:     newPublicFolder(*r.Folder, r.Folder.ID),
		OwnerEmail: r.OwnerEmail,
		ExpiresAt:  r.ExpiresAt,
	}
}

func newPublicContents(c *service.FolderContents) publicContents {
	return publicContents{
		RootID:  c.RootID,
		Folder:  newPublicFolder(*c.Folder, c.RootID),
		Folders: newPublicFolders(c.Folders, c.RootID),
		Files:   newPublicFiles(c.Files),
	}
}

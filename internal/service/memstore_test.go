package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/repository"
	"dataroom/internal/storage"
)

// memDB is an in-memory stand-in for the relational store, including the schema's
// unique indexes and ON DELETE CASCADE behaviour.
type memDB struct {
	mu      sync.Mutex
	folders map[string]model.Folder
	files   map[string]model.File
	links   map[string]model.SharedLink
}

func newMemDB() *memDB {
	return &memDB{
		folders: map[string]model.Folder{},
		files:   map[string]model.File{},
		links:   map[string]model.SharedLink{},
	}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ptr(s string) *string { return &s }

// seedFolder inserts a row directly, bypassing all checks. Used to build corrupted fixtures.
func (db *memDB) seedFolder(id, name string, parent *string, owner string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.folders[id] = model.Folder{ID: id, Name: name, ParentID: parent, OwnerID: owner}
}

func (db *memDB) seedFile(id, name string, folder *string, owner, path string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.files[id] = model.File{ID: id, Name: name, FolderID: folder, OwnerID: owner, StoragePath: path, SizeBytes: 1, ContentType: PDFContentType}
}

type memFolders struct{ db *memDB }

func (r memFolders) Create(_ context.Context, f *model.Folder) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.folders {
		if o.OwnerID == f.OwnerID && o.Name == f.Name && sameParent(o.ParentID, f.ParentID) {
			return nil, fmt.Errorf("insert folder: %w", repository.ErrDuplicate)
		}
	}
	r.db.folders[f.ID] = *f
	out := *f
	return &out, nil
}

func (r memFolders) FindByID(_ context.Context, id, ownerID string) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r memFolders) FindSibling(_ context.Context, ownerID string, parentID *string, name, excludeID string) (*model.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.folders {
		if f.OwnerID == ownerID && f.Name == name && sameParent(f.ParentID, parentID) && f.ID != excludeID {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memFolders) filter(keep func(model.Folder) bool) []model.Folder {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Folder{}
	for _, f := range r.db.folders {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memFolders) ListChildren(_ context.Context, ownerID string, parentID *string) ([]model.Folder, error) {
	return r.filter(func(f model.Folder) bool { return f.OwnerID == ownerID && sameParent(f.ParentID, parentID) }), nil
}

func (r memFolders) ListAll(_ context.Context, ownerID string) ([]model.Folder, error) {
	return r.filter(func(f model.Folder) bool { return f.OwnerID == ownerID }), nil
}

func (r memFolders) SearchByName(_ context.Context, ownerID, pattern string, limit int) ([]model.Folder, error) {
	out := r.filter(func(f model.Folder) bool {
		return f.OwnerID == ownerID && strings.Contains(strings.ToLower(f.Name), strings.ToLower(pattern))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memFolders) Rename(_ context.Context, id, ownerID, name string, updatedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.folders[id]
	if !ok || f.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	for _, o := range r.db.folders {
		if o.ID != id && o.OwnerID == ownerID && o.Name == name && sameParent(o.ParentID, f.ParentID) {
			return repository.ErrDuplicate
		}
	}
	f.Name = name
	f.UpdatedAt = updatedAt
	r.db.folders[id] = f
	return nil
}

func (r memFolders) Delete(_ context.Context, id, ownerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.folders[id]
	if !ok || f.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	r.db.cascade(id)
	return nil
}

// cascade mimics ON DELETE CASCADE on folders.parent_id, files.folder_id and shared_links.folder_id.
func (db *memDB) cascade(id string) {
	if _, ok := db.folders[id]; !ok {
		return
	}
	delete(db.folders, id)
	for fid, f := range db.files {
		if f.FolderID != nil && *f.FolderID == id {
			delete(db.files, fid)
		}
	}
	for tok, l := range db.links {
		if l.FolderID == id {
			delete(db.links, tok)
		}
	}
	for cid, c := range db.folders {
		if c.ParentID != nil && *c.ParentID == id {
			db.cascade(cid)
		}
	}
}

type memFiles struct{ db *memDB }

func (r memFiles) Create(_ context.Context, f *model.File) (*model.File, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.files[f.ID] = *f
	out := *f
	return &out, nil
}

func (r memFiles) FindByID(_ context.Context, id, ownerID string) (*model.File, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r memFiles) filter(keep func(model.File) bool) []model.File {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.File{}
	for _, f := range r.db.files {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r memFiles) ListByFolder(_ context.Context, ownerID string, folderID *string) ([]model.File, error) {
	return r.filter(func(f model.File) bool { return f.OwnerID == ownerID && sameParent(f.FolderID, folderID) }), nil
}

func (r memFiles) ListAll(_ context.Context, ownerID string) ([]model.File, error) {
	return r.filter(func(f model.File) bool { return f.OwnerID == ownerID }), nil
}

func (r memFiles) FindByName(_ context.Context, ownerID string, folderID *string, name string) ([]model.File, error) {
	return r.filter(func(f model.File) bool {
		return f.OwnerID == ownerID && sameParent(f.FolderID, folderID) && f.Name == name
	}), nil
}

func (r memFiles) SearchByName(_ context.Context, ownerID, pattern string, limit int) ([]model.File, error) {
	out := r.filter(func(f model.File) bool {
		return f.OwnerID == ownerID && strings.Contains(strings.ToLower(f.Name), strings.ToLower(pattern))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memFiles) Rename(_ context.Context, id, ownerID, name string, updatedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.files[id]
	if !ok || f.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	f.Name = name
	f.UpdatedAt = updatedAt
	r.db.files[id] = f
	return nil
}

func (r memFiles) Delete(_ context.Context, id, ownerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.files[id]
	if !ok || f.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.db.files, id)
	return nil
}

type memLinks struct{ db *memDB }

func (r memLinks) Create(_ context.Context, l *model.SharedLink) (*model.SharedLink, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.links {
		if o.OwnerID == l.OwnerID && o.FolderID == l.FolderID {
			return nil, repository.ErrDuplicate
		}
	}
	r.db.links[l.Token] = *l
	out := *l
	return &out, nil
}

func (r memLinks) FindByToken(_ context.Context, token string) (*model.SharedLink, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.links[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r memLinks) FindByFolder(_ context.Context, folderID, ownerID string) (*model.SharedLink, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.links {
		if l.FolderID == folderID && l.OwnerID == ownerID {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memLinks) DeleteByFolder(_ context.Context, folderID, ownerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for tok, l := range r.db.links {
		if l.FolderID == folderID && l.OwnerID == ownerID {
			delete(r.db.links, tok)
		}
	}
	return nil
}

// memBlobs is an in-memory blob store. deleteErr forces Delete to fail.
type memBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	deleteErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (b *memBlobs) Put(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	b.objects[key] = data
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: opt.ContentType}, nil
}

func (b *memBlobs) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.objects, key)
	return nil
}

func (b *memBlobs) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://blobs.test/%s?ttl=%d", key, int(expiry.Seconds())), nil
}

func (b *memBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

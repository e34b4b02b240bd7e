package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dataroom/internal/model"
	"dataroom/internal/repository"
	"dataroom/internal/storage"
)

// FolderService manages an owner's folder hierarchy.
type FolderService interface {
	// Create adds a folder under parentID. Root sentinels ("", "root", "null") mean top level.
	Create(ctx context.Context, p model.Principal, name, parentID string) (*model.Folder, error)

	// Rename changes a folder's name, keeping sibling names unique. Renaming to the same name is a no-op.
	Rename(ctx context.Context, p model.Principal, folderID, newName string) (*model.Folder, error)

	// Delete removes a folder with its whole subtree, files and share links.
	// Blob cleanup is best-effort; failures are logged as orphans.
	Delete(ctx context.Context, p model.Principal, folderID string) error

	// ListChildren returns the immediate child folders of parentID ordered by name.
	ListChildren(ctx context.Context, p model.Principal, parentID string) ([]model.Folder, error)

	// ListAll returns every folder of the caller.
	ListAll(ctx context.Context, p model.Principal) ([]model.Folder, error)

	// ResolvePath returns the folders from the top level down to folderID.
	// Corrupted ancestry (cycles, dangling parents) yields a truncated path.
	ResolvePath(ctx context.Context, p model.Principal, folderID string) ([]model.Folder, error)
}

type folderService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
	store   storage.Storage
	logger  *zap.Logger
	now     func() time.Time
}

// NewFolderService constructs a FolderService.
func NewFolderService(folders repository.FolderRepository, files repository.FileRepository, store storage.Storage, logger *zap.Logger) FolderService {
	return &folderService{
		folders: folders,
		files:   files,
		store:   store,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *folderService) Create(ctx context.Context, p model.Principal, name, parentID string) (*model.Folder, error) {
	ctx, span := tracer.Start(ctx, "FolderService.Create")
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	parent := normalizeFolderID(parentID)
	if parent != nil {
		if _, err := s.folders.FindByID(ctx, *parent, p.ID); err != nil {
			return nil, persistErr("find parent folder", err)
		}
	}

	if err := s.ensureUniqueName(ctx, p.ID, parent, name, ""); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.folders.Create(ctx, &model.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parent,
		OwnerID:   p.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with a concurrent create; the unique index decided.
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, persistErr("create folder", err)
	}
	span.SetAttributes(attribute.String("folder.id", created.ID))
	return created, nil
}

func (s *folderService) Rename(ctx context.Context, p model.Principal, folderID, newName string) (*model.Folder, error) {
	ctx, span := tracer.Start(ctx, "FolderService.Rename", trace.WithAttributes(attribute.String("folder.id", folderID)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	name, err := cleanName(newName)
	if err != nil {
		return nil, err
	}

	f, err := s.folders.FindByID(ctx, folderID, p.ID)
	if err != nil {
		return nil, persistErr("find folder", err)
	}
	if f.Name == name {
		return f, nil
	}

	if err := s.ensureUniqueName(ctx, p.ID, f.ParentID, name, f.ID); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.folders.Rename(ctx, f.ID, p.ID, name, now); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, persistErr("rename folder", err)
	}
	f.Name = name
	f.UpdatedAt = now
	return f, nil
}

// ensureUniqueName is the fast-path sibling check. The unique index remains authoritative.
func (s *folderService) ensureUniqueName(ctx context.Context, ownerID string, parentID *string, name, excludeID string) error {
	_, err := s.folders.FindSibling(ctx, ownerID, parentID, name, excludeID)
	switch {
	case err == nil:
		return ErrDuplicateName
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return persistErr("check sibling name", err)
	}
}

func (s *folderService) Delete(ctx context.Context, p model.Principal, folderID string) error {
	ctx, span := tracer.Start(ctx, "FolderService.Delete", trace.WithAttributes(attribute.String("folder.id", folderID)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return err
	}
	root, err := s.folders.FindByID(ctx, folderID, p.ID)
	if err != nil {
		return persistErr("find folder", err)
	}

	paths, err := s.collectBlobs(ctx, p.ID, root.ID)
	if err != nil {
		return err
	}

	// The schema cascades to descendant folders, their files and share links.
	if err := s.folders.Delete(ctx, root.ID, p.ID); err != nil {
		return persistErr("delete folder", err)
	}

	cleanupCtx := context.WithoutCancel(ctx)
	for _, path := range paths {
		if err := s.store.Delete(cleanupCtx, path); err != nil {
			s.logger.Warn("orphaned_blob",
				zap.String("folder_id", root.ID),
				zap.String("storage_path", path),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("folder_deleted",
		zap.String("folder_id", root.ID),
		zap.String("owner_id", p.ID),
		zap.Int("blobs", len(paths)),
	)
	return nil
}

// collectBlobs walks the subtree breadth-first and returns the storage paths of every file in it.
func (s *folderService) collectBlobs(ctx context.Context, ownerID, rootID string) ([]string, error) {
	var paths []string
	visited := map[string]struct{}{rootID: {}}
	queue := []string{rootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		files, err := s.files.ListByFolder(ctx, ownerID, &id)
		if err != nil {
			return nil, persistErr("list subtree files", err)
		}
		for _, f := range files {
			paths = append(paths, f.StoragePath)
		}

		children, err := s.folders.ListChildren(ctx, ownerID, &id)
		if err != nil {
			return nil, persistErr("list subtree folders", err)
		}
		for _, c := range children {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			queue = append(queue, c.ID)
		}
	}
	return paths, nil
}

func (s *folderService) ListChildren(ctx context.Context, p model.Principal, parentID string) ([]model.Folder, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	parent := normalizeFolderID(parentID)
	if parent != nil {
		if _, err := s.folders.FindByID(ctx, *parent, p.ID); err != nil {
			return nil, persistErr("find folder", err)
		}
	}
	items, err := s.folders.ListChildren(ctx, p.ID, parent)
	if err != nil {
		return nil, persistErr("list folders", err)
	}
	return items, nil
}

func (s *folderService) ListAll(ctx context.Context, p model.Principal) ([]model.Folder, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	items, err := s.folders.ListAll(ctx, p.ID)
	if err != nil {
		return nil, persistErr("list folders", err)
	}
	return items, nil
}

func (s *folderService) ResolvePath(ctx context.Context, p model.Principal, folderID string) ([]model.Folder, error) {
	ctx, span := tracer.Start(ctx, "FolderService.ResolvePath", trace.WithAttributes(attribute.String("folder.id", folderID)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	start := normalizeFolderID(folderID)
	if start == nil {
		return []model.Folder{}, nil
	}

	walk, err := walkAncestry(ctx, s.folders, p.ID, *start, "")
	if err != nil {
		return nil, persistErr("resolve path", err)
	}
	if len(walk.Chain) == 0 {
		return nil, ErrNotFound
	}
	if walk.Cycle || walk.Broken {
		s.logger.Warn("folder_ancestry_corrupted",
			zap.String("folder_id", *start),
			zap.String("owner_id", p.ID),
			zap.Bool("cycle", walk.Cycle),
			zap.Bool("dangling_parent", walk.Broken),
		)
	}
	return walk.rootToLeaf(), nil
}

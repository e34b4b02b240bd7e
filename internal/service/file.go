package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dataroom/internal/model"
	"dataroom/internal/repository"
	"dataroom/internal/storage"
)

// DefaultSignedURLTTL is used when the caller passes a non-positive TTL.
const DefaultSignedURLTTL = time.Hour

// UploadInput describes one file upload.
type UploadInput struct {
	Body        io.Reader
	Name        string
	ContentType string
	Size        int64
	// FolderID is the destination folder; root sentinels mean top level.
	FolderID string
}

// FileOptions tunes FileService limits.
type FileOptions struct {
	MaxUploadBytes int64
	SignedURLTTL   time.Duration
}

// FileService manages PDF files and keeps blobs and records consistent.
type FileService interface {
	// Upload stores the payload and then inserts the record. If the insert fails the blob is removed again.
	Upload(ctx context.Context, p model.Principal, in UploadInput) (*model.File, error)

	// Delete removes the record and then the blob. A failed blob delete is only logged.
	Delete(ctx context.Context, p model.Principal, fileID string) error

	// Rename changes a file's display name. File names need not be unique.
	Rename(ctx context.Context, p model.Principal, fileID, newName string) (*model.File, error)

	// List returns files directly inside folderID ordered by name.
	List(ctx context.Context, p model.Principal, folderID string) ([]model.File, error)

	// ListAll returns every file of the caller.
	ListAll(ctx context.Context, p model.Principal) ([]model.File, error)

	// FindDuplicates returns same-named files in folderID, for warning before an upload.
	FindDuplicates(ctx context.Context, p model.Principal, folderID, name string) ([]model.File, error)

	// SignedURL issues a short-lived download URL after re-checking ownership.
	SignedURL(ctx context.Context, p model.Principal, fileID string, ttl time.Duration) (string, error)

	// Open streams the file content. The caller must close the reader.
	Open(ctx context.Context, p model.Principal, fileID string) (io.ReadCloser, *model.File, error)
}

type fileService struct {
	files   repository.FileRepository
	folders repository.FolderRepository
	store   storage.Storage
	logger  *zap.Logger
	opts    FileOptions
	now     func() time.Time
}

// NewFileService constructs a FileService. Zero options fall back to package defaults.
func NewFileService(files repository.FileRepository, folders repository.FolderRepository, store storage.Storage, logger *zap.Logger, opts FileOptions) FileService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.SignedURLTTL <= 0 {
		opts.SignedURLTTL = DefaultSignedURLTTL
	}
	return &fileService{
		files:   files,
		folders: folders,
		store:   store,
		logger:  logger,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *fileService) Upload(ctx context.Context, p model.Principal, in UploadInput) (*model.File, error) {
	ctx, span := tracer.Start(ctx, "FileService.Upload", trace.WithAttributes(attribute.Int64("file.size", in.Size)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	// Validation happens before any store is touched.
	if in.Body == nil || in.Size < 0 {
		return nil, ErrInvalidUpload
	}
	if in.ContentType != PDFContentType {
		return nil, ErrInvalidFileType
	}
	if in.Size > s.opts.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}

	folder := normalizeFolderID(in.FolderID)
	if folder != nil {
		if _, err := s.folders.FindByID(ctx, *folder, p.ID); err != nil {
			return nil, persistErr("find folder", err)
		}
	}

	now := s.now()
	key, err := storagePath(p.ID, now)
	if err != nil {
		return nil, storageErr("generate storage path", err)
	}

	// One extra byte lets a backend that streams without a length notice an oversized body.
	info, err := s.store.Put(ctx, key, io.LimitReader(in.Body, in.Size+1), storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: PDFContentType,
		Metadata:    map[string]string{"original-filename": name},
	})
	if err != nil {
		return nil, storageErr("upload to storage", err)
	}
	if info.Size != in.Size {
		s.compensate(ctx, key, "size_mismatch")
		return nil, storageErr("upload to storage", fmt.Errorf("stored %d bytes, declared %d", info.Size, in.Size))
	}

	stored, err := s.files.Create(ctx, &model.File{
		ID:          uuid.NewString(),
		Name:        name,
		FolderID:    folder,
		OwnerID:     p.ID,
		StoragePath: key,
		SizeBytes:   info.Size,
		ContentType: PDFContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.compensate(ctx, key, "record_insert_failed")
		return nil, persistErr("save file record", err)
	}
	return stored, nil
}

// compensate removes a blob written by a failed upload. Its own failure is logged and never returned.
func (s *fileService) compensate(ctx context.Context, key, reason string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error("upload_compensation_failed",
			zap.String("storage_path", key),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("upload_compensated", zap.String("storage_path", key), zap.String("reason", reason))
}

// storagePath namespaces the blob under the owner with a time and random component.
func storagePath(ownerID string, now time.Time) (string, error) {
	suffix, err := randomHex(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d-%s.pdf", ownerID, now.UnixMilli(), suffix), nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *fileService) Delete(ctx context.Context, p model.Principal, fileID string) error {
	ctx, span := tracer.Start(ctx, "FileService.Delete", trace.WithAttributes(attribute.String("file.id", fileID)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return err
	}
	f, err := s.files.FindByID(ctx, fileID, p.ID)
	if err != nil {
		return persistErr("find file", err)
	}
	if err := s.files.Delete(ctx, f.ID, p.ID); err != nil {
		return persistErr("delete file record", err)
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), f.StoragePath); err != nil {
		s.logger.Warn("orphaned_blob",
			zap.String("file_id", f.ID),
			zap.String("storage_path", f.StoragePath),
			zap.Error(err),
		)
	}
	return nil
}

func (s *fileService) Rename(ctx context.Context, p model.Principal, fileID, newName string) (*model.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	name, err := cleanName(newName)
	if err != nil {
		return nil, err
	}
	f, err := s.files.FindByID(ctx, fileID, p.ID)
	if err != nil {
		return nil, persistErr("find file", err)
	}
	if f.Name == name {
		return f, nil
	}
	now := s.now()
	if err := s.files.Rename(ctx, f.ID, p.ID, name, now); err != nil {
		return nil, persistErr("rename file", err)
	}
	f.Name = name
	f.UpdatedAt = now
	return f, nil
}

func (s *fileService) List(ctx context.Context, p model.Principal, folderID string) ([]model.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	folder := normalizeFolderID(folderID)
	if folder != nil {
		if _, err := s.folders.FindByID(ctx, *folder, p.ID); err != nil {
			return nil, persistErr("find folder", err)
		}
	}
	items, err := s.files.ListByFolder(ctx, p.ID, folder)
	if err != nil {
		return nil, persistErr("list files", err)
	}
	return items, nil
}

func (s *fileService) ListAll(ctx context.Context, p model.Principal) ([]model.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	items, err := s.files.ListAll(ctx, p.ID)
	if err != nil {
		return nil, persistErr("list files", err)
	}
	return items, nil
}

func (s *fileService) FindDuplicates(ctx context.Context, p model.Principal, folderID, name string) ([]model.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	items, err := s.files.FindByName(ctx, p.ID, normalizeFolderID(folderID), name)
	if err != nil {
		return nil, persistErr("find duplicate files", err)
	}
	return items, nil
}

func (s *fileService) SignedURL(ctx context.Context, p model.Principal, fileID string, ttl time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "FileService.SignedURL", trace.WithAttributes(attribute.String("file.id", fileID)))
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return "", err
	}
	f, err := s.files.FindByID(ctx, fileID, p.ID)
	if err != nil {
		return "", persistErr("find file", err)
	}
	return s.presign(ctx, f, ttl)
}

func (s *fileService) presign(ctx context.Context, f *model.File, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.opts.SignedURLTTL
	}
	u, err := s.store.PresignGet(ctx, f.StoragePath, ttl)
	if err != nil {
		return "", storageErr("sign url", err)
	}
	return u, nil
}

func (s *fileService) Open(ctx context.Context, p model.Principal, fileID string) (io.ReadCloser, *model.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, nil, err
	}
	f, err := s.files.FindByID(ctx, fileID, p.ID)
	if err != nil {
		return nil, nil, persistErr("find file", err)
	}
	rc, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("missing_blob", zap.String("file_id", f.ID), zap.String("storage_path", f.StoragePath))
		}
		return nil, nil, storageErr("open file", err)
	}
	return rc, f, nil
}

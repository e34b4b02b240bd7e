package service

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dataroom/internal/model"
	"dataroom/internal/repository"
	"dataroom/internal/storage"
)

// tokenBytes is the share token entropy: 256 bits, hex encoded to 64 characters.
const tokenBytes = 32

// ShareOptions tunes share links.
type ShareOptions struct {
	// LinkTTL sets expires_at on new links. Zero means links never expire.
	LinkTTL      time.Duration
	SignedURLTTL time.Duration
}

// FolderContents is one level of a folder: its child folders and its files.
type FolderContents struct {
	// RootID is the shared root the listing is scoped to, empty for owner listings.
	RootID  string         `json:"root_id,omitempty"`
	Folder  *model.Folder  `json:"folder"`
	Folders []model.Folder `json:"folders"`
	Files   []model.File   `json:"files"`
}

// SharedRoot describes the folder a token grants access to.
type SharedRoot struct {
	Folder     *model.Folder `json:"folder"`
	OwnerEmail string        `json:"owner_email"`
	ExpiresAt  *time.Time    `json:"expires_at"`
}

// ShareService issues share tokens and authorizes anonymous reads against the shared subtree.
type ShareService interface {
	// Issue returns the folder's active token, minting one when there is none.
	Issue(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error)

	// Get returns the folder's active token, or ErrNotFound.
	Get(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error)

	// Revoke deletes the folder's share links. Revoking an unshared folder succeeds.
	Revoke(ctx context.Context, p model.Principal, folderID string) error

	// Validate resolves a token. Unknown, malformed and expired tokens all return ErrInvalidShareToken.
	Validate(ctx context.Context, token string) (*model.SharedLink, error)

	// ResolveSubtreeMembership reports whether folderID is sharedRootID or one of its descendants.
	// A nil folderID (top level) is never a member. Corrupted ancestry denies access.
	ResolveSubtreeMembership(ctx context.Context, ownerID string, folderID *string, sharedRootID string) (bool, error)

	// SharedRoot returns the shared folder with the owner's email.
	SharedRoot(ctx context.Context, token string) (*SharedRoot, error)

	// ListSharedChildren lists one folder inside the shared subtree. An empty folderID means the shared root.
	ListSharedChildren(ctx context.Context, token, folderID string) (*FolderContents, error)

	// SharedPath returns the breadcrumb from the shared root down to folderID.
	SharedPath(ctx context.Context, token, folderID string) ([]model.Folder, error)

	// SharedFileURL issues a download URL for a file inside the shared subtree.
	SharedFileURL(ctx context.Context, token, fileID string, ttl time.Duration) (string, error)
}

type shareService struct {
	links    repository.SharedLinkRepository
	folders  repository.FolderRepository
	files    repository.FileRepository
	store    storage.Storage
	logger   *zap.Logger
	opts     ShareOptions
	now      func() time.Time
	newToken func() (string, error)
}

// NewShareService constructs a ShareService.
func NewShareService(links repository.SharedLinkRepository, folders repository.FolderRepository, files repository.FileRepository, store storage.Storage, logger *zap.Logger, opts ShareOptions) ShareService {
	if opts.SignedURLTTL <= 0 {
		opts.SignedURLTTL = DefaultSignedURLTTL
	}
	return &shareService{
		links:    links,
		folders:  folders,
		files:    files,
		store:    store,
		logger:   logger,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: func() (string, error) { return randomHex(tokenBytes) },
	}
}

func (s *shareService) ownedFolder(ctx context.Context, p model.Principal, folderID string) (*model.Folder, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	id := normalizeFolderID(folderID)
	if id == nil {
		return nil, ErrNotFound
	}
	f, err := s.folders.FindByID(ctx, *id, p.ID)
	if err != nil {
		return nil, persistErr("find folder", err)
	}
	return f, nil
}

func (s *shareService) Issue(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error) {
	ctx, span := tracer.Start(ctx, "ShareService.Issue", trace.WithAttributes(attribute.String("folder.id", folderID)))
	defer span.End()

	folder, err := s.ownedFolder(ctx, p, folderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.links.FindByFolder(ctx, folder.ID, p.ID)
	switch {
	case err == nil && !existing.Expired(now):
		return existing, nil
	case err == nil:
		// An expired link is dead; replace it so the unique pair is free again.
		if err := s.links.DeleteByFolder(ctx, folder.ID, p.ID); err != nil {
			return nil, persistErr("delete expired share link", err)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, persistErr("find share link", err)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	link := &model.SharedLink{
		Token:      token,
		FolderID:   folder.ID,
		OwnerID:    p.ID,
		OwnerEmail: p.Email,
		CreatedAt:  now,
	}
	if s.opts.LinkTTL > 0 {
		exp := now.Add(s.opts.LinkTTL)
		link.ExpiresAt = &exp
	}

	created, err := s.links.Create(ctx, link)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent Issue won; hand out its token.
		winner, ferr := s.links.FindByFolder(ctx, folder.ID, p.ID)
		if ferr != nil {
			return nil, persistErr("find share link", ferr)
		}
		return winner, nil
	}
	if err != nil {
		return nil, persistErr("create share link", err)
	}

	s.logger.Info("share_link_issued",
		zap.String("folder_id", folder.ID),
		zap.String("owner_id", p.ID),
		zap.Bool("expires", created.ExpiresAt != nil),
	)
	return created, nil
}

func (s *shareService) Get(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error) {
	folder, err := s.ownedFolder(ctx, p, folderID)
	if err != nil {
		return nil, err
	}
	link, err := s.links.FindByFolder(ctx, folder.ID, p.ID)
	if err != nil {
		return nil, persistErr("find share link", err)
	}
	if link.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return link, nil
}

func (s *shareService) Revoke(ctx context.Context, p model.Principal, folderID string) error {
	folder, err := s.ownedFolder(ctx, p, folderID)
	if err != nil {
		return err
	}
	if err := s.links.DeleteByFolder(ctx, folder.ID, p.ID); err != nil {
		return persistErr("revoke share link", err)
	}
	s.logger.Info("share_link_revoked", zap.String("folder_id", folder.ID), zap.String("owner_id", p.ID))
	return nil
}

func wellFormedToken(token string) bool {
	if len(token) != hex.EncodedLen(tokenBytes) {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

func (s *shareService) Validate(ctx context.Context, token string) (*model.SharedLink, error) {
	if !wellFormedToken(token) {
		return nil, ErrInvalidShareToken
	}
	link, err := s.links.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidShareToken
	}
	if err != nil {
		return nil, persistErr("find share link", err)
	}
	if link.Expired(s.now()) {
		return nil, ErrInvalidShareToken
	}
	return link, nil
}

func (s *shareService) ResolveSubtreeMembership(ctx context.Context, ownerID string, folderID *string, sharedRootID string) (bool, error) {
	if folderID == nil || sharedRootID == "" {
		return false, nil
	}
	walk, err := walkAncestry(ctx, s.folders, ownerID, *folderID, sharedRootID)
	if err != nil {
		return false, persistErr("resolve membership", err)
	}
	if walk.Cycle {
		s.logger.Warn("folder_ancestry_corrupted",
			zap.String("folder_id", *folderID),
			zap.String("owner_id", ownerID),
			zap.Bool("cycle", true),
		)
	}
	return walk.Reached, nil
}

// sharedFolder validates the token and loads folderID, which must lie inside the shared subtree.
// Anything outside the subtree is reported as ErrNotFound.
func (s *shareService) sharedFolder(ctx context.Context, token, folderID string) (*model.SharedLink, *model.Folder, error) {
	link, err := s.Validate(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	target := link.FolderID
	if id := normalizeFolderID(folderID); id != nil {
		target = *id
	}

	folder, err := s.folders.FindByID(ctx, target, link.OwnerID)
	if err != nil {
		return nil, nil, persistErr("find shared folder", err)
	}
	if folder.ID == link.FolderID {
		return link, folder, nil
	}

	ok, err := s.ResolveSubtreeMembership(ctx, link.OwnerID, &folder.ID, link.FolderID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		s.logger.Warn("share_scope_violation",
			zap.String("shared_folder_id", link.FolderID),
			zap.String("requested_folder_id", folder.ID),
		)
		return nil, nil, ErrNotFound
	}
	return link, folder, nil
}

func (s *shareService) SharedRoot(ctx context.Context, token string) (*SharedRoot, error) {
	link, folder, err := s.sharedFolder(ctx, token, "")
	if err != nil {
		return nil, err
	}
	return &SharedRoot{Folder: folder, OwnerEmail: link.OwnerEmail, ExpiresAt: link.ExpiresAt}, nil
}

func (s *shareService) ListSharedChildren(ctx context.Context, token, folderID string) (*FolderContents, error) {
	ctx, span := tracer.Start(ctx, "ShareService.ListSharedChildren")
	defer span.End()

	link, folder, err := s.sharedFolder(ctx, token, folderID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folders.ListChildren(ctx, link.OwnerID, &folder.ID)
	if err != nil {
		return nil, persistErr("list shared folders", err)
	}
	files, err := s.files.ListByFolder(ctx, link.OwnerID, &folder.ID)
	if err != nil {
		return nil, persistErr("list shared files", err)
	}
	return &FolderContents{RootID: link.FolderID, Folder: folder, Folders: folders, Files: files}, nil
}

func (s *shareService) SharedPath(ctx context.Context, token, folderID string) ([]model.Folder, error) {
	link, folder, err := s.sharedFolder(ctx, token, folderID)
	if err != nil {
		return nil, err
	}
	walk, err := walkAncestry(ctx, s.folders, link.OwnerID, folder.ID, link.FolderID)
	if err != nil {
		return nil, persistErr("resolve shared path", err)
	}
	if !walk.Reached {
		return nil, ErrNotFound
	}
	return walk.rootToLeaf(), nil
}

func (s *shareService) SharedFileURL(ctx context.Context, token, fileID string, ttl time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "ShareService.SharedFileURL", trace.WithAttributes(attribute.String("file.id", fileID)))
	defer span.End()

	link, err := s.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	f, err := s.files.FindByID(ctx, fileID, link.OwnerID)
	if err != nil {
		return "", persistErr("find shared file", err)
	}
	ok, err := s.ResolveSubtreeMembership(ctx, link.OwnerID, f.FolderID, link.FolderID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}

	// Anonymous viewers never get a URL outliving the configured lifetime.
	if ttl <= 0 || ttl > s.opts.SignedURLTTL {
		ttl = s.opts.SignedURLTTL
	}
	u, err := s.store.PresignGet(ctx, f.StoragePath, ttl)
	if err != nil {
		return "", storageErr("sign shared url", err)
	}
	return u, nil
}

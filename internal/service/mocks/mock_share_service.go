package mocks

import (
	"context"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockShareService struct {
	mock.Mock
}

var _ service.ShareService = (*MockShareService)(nil)

func (m *MockShareService) Issue(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error) {
	args := m.Called(ctx, p, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockShareService) Get(ctx context.Context, p model.Principal, folderID string) (*model.SharedLink, error) {
	args := m.Called(ctx, p, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, p model.Principal, folderID string) error {
	args := m.Called(ctx, p, folderID)
	return args.Error(0)
}

func (m *MockShareService) Validate(ctx context.Context, token string) (*model.SharedLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockShareService) ResolveSubtreeMembership(ctx context.Context, ownerID string, folderID *string, sharedRootID string) (bool, error) {
	args := m.Called(ctx, ownerID, folderID, sharedRootID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareService) SharedRoot(ctx context.Context, token string) (*service.SharedRoot, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SharedRoot), args.Error(1)
}

func (m *MockShareService) ListSharedChildren(ctx context.Context, token, folderID string) (*service.FolderContents, error) {
	args := m.Called(ctx, token, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FolderContents), args.Error(1)
}

func (m *MockShareService) SharedPath(ctx context.Context, token, folderID string) ([]model.Folder, error) {
	args := m.Called(ctx, token, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockShareService) SharedFileURL(ctx context.Context, token, fileID string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, token, fileID, ttl)
	return args.String(0), args.Error(1)
}

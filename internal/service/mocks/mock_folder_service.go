package mocks

import (
	"context"

	"dataroom/internal/model"
	"dataroom/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFolderService struct {
	mock.Mock
}

var _ service.FolderService = (*MockFolderService)(nil)

func (m *MockFolderService) Create(ctx context.Context, p model.Principal, name, parentID string) (*model.Folder, error) {
	args := m.Called(ctx, p, name, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Rename(ctx context.Context, p model.Principal, folderID, newName string) (*model.Folder, error) {
	args := m.Called(ctx, p, folderID, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, p model.Principal, folderID string) error {
	args := m.Called(ctx, p, folderID)
	return args.Error(0)
}

func (m *MockFolderService) ListChildren(ctx context.Context, p model.Principal, parentID string) ([]model.Folder, error) {
	args := m.Called(ctx, p, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) ListAll(ctx context.Context, p model.Principal) ([]model.Folder, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) ResolvePath(ctx context.Context, p model.Principal, folderID string) ([]model.Folder, error) {
	args := m.Called(ctx, p, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

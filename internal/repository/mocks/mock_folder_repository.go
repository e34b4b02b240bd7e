package mocks

import (
	"context"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFolderRepository struct {
	mock.Mock
}

var _ repository.FolderRepository = (*MockFolderRepository)(nil)

func (m *MockFolderRepository) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindByID(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindSibling(ctx context.Context, ownerID string, parentID *string, name, excludeID string) (*model.Folder, error) {
	args := m.Called(ctx, ownerID, parentID, name, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListAll(ctx context.Context, ownerID string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.Folder, error) {
	args := m.Called(ctx, ownerID, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error {
	args := m.Called(ctx, id, ownerID, name, updatedAt)
	return args.Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

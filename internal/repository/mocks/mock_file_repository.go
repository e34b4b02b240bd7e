package mocks

import (
	"context"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFileRepository struct {
	mock.Mock
}

var _ repository.FileRepository = (*MockFileRepository)(nil)

func (m *MockFileRepository) Create(ctx context.Context, f *model.File) (*model.File, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id, ownerID string) (*model.File, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]model.File, error) {
	args := m.Called(ctx, ownerID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListAll(ctx context.Context, ownerID string) ([]model.File, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) FindByName(ctx context.Context, ownerID string, folderID *string, name string) ([]model.File, error) {
	args := m.Called(ctx, ownerID, folderID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) SearchByName(ctx context.Context, ownerID, pattern string, limit int) ([]model.File, error) {
	args := m.Called(ctx, ownerID, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) Rename(ctx context.Context, id, ownerID, name string, updatedAt time.Time) error {
	args := m.Called(ctx, id, ownerID, name, updatedAt)
	return args.Error(0)
}

func (m *MockFileRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

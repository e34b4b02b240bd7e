package mocks

import (
	"context"
	"io"
	"time"

	"dataroom/internal/model"
	"dataroom/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

var _ service.FileService = (*MockFileService)(nil)

func (m *MockFileService) Upload(ctx context.Context, p model.Principal, in service.UploadInput) (*model.File, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, p model.Principal, fileID string) error {
	args := m.Called(ctx, p, fileID)
	return args.Error(0)
}

func (m *MockFileService) Rename(ctx context.Context, p model.Principal, fileID, newName string) (*model.File, error) {
	args := m.Called(ctx, p, fileID, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, p model.Principal, folderID string) ([]model.File, error) {
	args := m.Called(ctx, p, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) ListAll(ctx context.Context, p model.Principal) ([]model.File, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) FindDuplicates(ctx context.Context, p model.Principal, folderID, name string) ([]model.File, error) {
	args := m.Called(ctx, p, folderID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) SignedURL(ctx context.Context, p model.Principal, fileID string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, p, fileID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Open(ctx context.Context, p model.Principal, fileID string) (io.ReadCloser, *model.File, error) {
	args := m.Called(ctx, p, fileID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.File), args.Error(2)
}

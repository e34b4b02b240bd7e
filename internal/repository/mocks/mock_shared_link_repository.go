package mocks

import (
	"context"

	"dataroom/internal/model"
	"dataroom/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockSharedLinkRepository struct {
	mock.Mock
}

var _ repository.SharedLinkRepository = (*MockSharedLinkRepository)(nil)

func (m *MockSharedLinkRepository) Create(ctx context.Context, l *model.SharedLink) (*model.SharedLink, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockSharedLinkRepository) FindByToken(ctx context.Context, token string) (*model.SharedLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockSharedLinkRepository) FindByFolder(ctx context.Context, folderID, ownerID string) (*model.SharedLink, error) {
	args := m.Called(ctx, folderID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedLink), args.Error(1)
}

func (m *MockSharedLinkRepository) DeleteByFolder(ctx context.Context, folderID, ownerID string) error {
	args := m.Called(ctx, folderID, ownerID)
	return args.Error(0)
}

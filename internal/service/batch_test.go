package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dataroom/internal/model"
	"dataroom/internal/service"
	svcMocks "dataroom/internal/service/mocks"
)

// owner is the caller for every batch in this file.
var owner = model.Principal{ID: "user-1", Email: "owner@example.com"}

func TestBatchDeleter_Delete(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	mFolders := new(svcMocks.MockFolderService)
	mFiles := new(svcMocks.MockFileService)
	mFolders.On("Delete", mock.Anything, owner, "f-1").Return(nil)
	mFolders.On("Delete", mock.Anything, owner, "f-2").Return(service.ErrNotFound)
	mFiles.On("Delete", mock.Anything, owner, "x-1").Return(nil)
	mFiles.On("Delete", mock.Anything, owner, "x-2").Return(boom)

	items := []service.BatchItem{
		{ID: "f-1", Kind: service.KindFolder},
		{ID: "x-1", Kind: service.KindFile},
		{ID: "f-2", Kind: service.KindFolder},
		{ID: "x-2", Kind: service.KindFile},
		{ID: "?", Kind: "drive"},
	}

	b := service.NewBatchDeleter(mFolders, mFiles, zap.NewNop(), 2)
	res, err := b.Delete(ctx, owner, items)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Results, len(items))
	for i, r := range res.Results {
		assert.Equal(t, items[i], r.Item)
	}
	assert.NoError(t, res.Results[0].Err)
	assert.ErrorIs(t, res.Results[2].Err, service.ErrNotFound)
	assert.ErrorIs(t, res.Results[3].Err, boom)

	combined := res.Err()
	assert.Len(t, multierr.Errors(combined), 3)
	assert.ErrorIs(t, combined, boom)

	mFolders.AssertExpectations(t)
	mFiles.AssertExpectations(t)
}

func TestBatchDeleter_AllSucceed(t *testing.T) {
	mFiles := new(svcMocks.MockFileService)
	mFiles.On("Delete", mock.Anything, owner, mock.Anything).Return(nil)

	b := service.NewBatchDeleter(new(svcMocks.MockFolderService), mFiles, zap.NewNop(), 0)
	res, err := b.Delete(context.Background(), owner, []service.BatchItem{{ID: "a", Kind: service.KindFile}, {ID: "b", Kind: service.KindFile}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Zero(t, res.Failed)
	assert.NoError(t, res.Err())
}

func TestBatchDeleter_Unauthorized(t *testing.T) {
	b := service.NewBatchDeleter(new(svcMocks.MockFolderService), new(svcMocks.MockFileService), zap.NewNop(), 1)
	_, err := b.Delete(context.Background(), model.Principal{}, []service.BatchItem{{ID: "a", Kind: service.KindFile}})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

package mocks

import (
	"context"

	"dataroom/internal/model"
	"dataroom/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSearchService struct {
	mock.Mock
}

var _ service.SearchService = (*MockSearchService)(nil)

func (m *MockSearchService) Search(ctx context.Context, p model.Principal, query string) (*service.SearchResult, error) {
	args := m.Called(ctx, p, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

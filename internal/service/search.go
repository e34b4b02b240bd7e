package service

import (
	"context"
	"strings"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// DefaultSearchLimit caps each result kind.
const DefaultSearchLimit = 50

// SearchResult groups matches by kind.
type SearchResult struct {
	Folders []model.Folder `json:"folders"`
	Files   []model.File   `json:"files"`
}

// SearchService finds the caller's folders and files by name.
type SearchService interface {
	// Search does a case-insensitive substring match. An empty query matches nothing.
	Search(ctx context.Context, p model.Principal, query string) (*SearchResult, error)
}

type searchService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
	limit   int
}

// NewSearchService constructs a SearchService.
func NewSearchService(folders repository.FolderRepository, files repository.FileRepository) SearchService {
	return &searchService{folders: folders, files: files, limit: DefaultSearchLimit}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *searchService) Search(ctx context.Context, p model.Principal, query string) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchService.Search")
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Folders: []model.Folder{}, Files: []model.File{}}, nil
	}
	pattern := escapeLike(query)

	folders, err := s.folders.SearchByName(ctx, p.ID, pattern, s.limit)
	if err != nil {
		return nil, persistErr("search folders", err)
	}
	files, err := s.files.SearchByName(ctx, p.ID, pattern, s.limit)
	if err != nil {
		return nil, persistErr("search files", err)
	}
	return &SearchResult{Folders: folders, Files: files}, nil
}

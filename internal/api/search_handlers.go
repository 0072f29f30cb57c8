package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhiveapp/bookhive-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Full-text search over the caller's library (title, author, genre)",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)
}

// SearchBooksInput contains search parameters.
type SearchBooksInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
	Genre         string `query:"genre" doc:"Exact genre filter"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset        int    `query:"offset" minimum:"0" default:"0" doc:"Result offset"`
	SortBy        string `query:"sort" enum:"relevance,title,author,recent" default:"relevance" doc:"Sort key"`
	SortOrder     string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort direction"`
}

// SearchBooksOutput wraps search results for Huma.
type SearchBooksOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.UserID = userID
	params.Genre = input.Genre
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		params.SortOrder = input.SortOrder
	}

	result, err := s.deps.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchBooksOutput{Body: *result}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/media/covers"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the caller's books, newest first",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Add book",
		Description: "Adds a book to the caller's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces a book the caller owns",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book the caller owns",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookRequest is the writable portion of a book.
type BookRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=500" doc:"Book title"`
	Author        string `json:"author" validate:"required,min=1,max=200" doc:"Author name"`
	Genre         string `json:"genre,omitempty" validate:"omitempty,max=100" doc:"Genre label"`
	TotalPages    int    `json:"totalPages" validate:"gte=0" doc:"Total page count"`
	CoverImageURL string `json:"coverImageUrl,omitempty" validate:"omitempty,url,max=2048" doc:"Cover image URL"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID             string    `json:"id" doc:"Book ID"`
	UserID         string    `json:"userId" doc:"Owner account identifier"`
	Title          string    `json:"title" doc:"Book title"`
	Author         string    `json:"author" doc:"Author name"`
	Genre          string    `json:"genre,omitempty" doc:"Genre label"`
	TotalPages     int       `json:"totalPages" doc:"Total page count"`
	CoverImageURL  string    `json:"coverImageUrl,omitempty" doc:"Cover image URL"`
	CoverBlurHash  string    `json:"coverBlurHash,omitempty" doc:"Cover placeholder hash"`
	AddedTimestamp time.Time `json:"addedTimestamp" doc:"Server-assigned creation time"`
	AddedDate      string    `json:"addedDate" doc:"Formatted creation date"`
}

// ListBooksInput carries the caller's token.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body struct {
		Books []BookResponse `json:"books" doc:"Books, newest first"`
	}
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          BookRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput identifies a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          BookRequest
}

// DeleteBookInput identifies a book to delete.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.books(userID).ListByCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListBooksOutput{}
	out.Body.Books = make([]BookResponse, len(books))
	for i, b := range books {
		out.Body.Books[i] = mapBookResponse(b)
	}
	return out, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.books(userID).Create(ctx, domainBookFromRequest(input.Body))
	if err != nil {
		return nil, err
	}

	s.fetchCoverAsync(book)

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.books(userID).GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	current, err := s.books(userID).GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updated := domainBookFromRequest(input.Body)
	updated.ID = current.ID
	updated.UserID = current.UserID
	updated.AddedAt = current.AddedAt
	if updated.CoverImageURL == current.CoverImageURL {
		updated.CoverBlurHash = current.CoverBlurHash
	}

	if err := s.books(userID).Update(ctx, input.ID, updated); err != nil {
		return nil, err
	}

	if updated.CoverImageURL != current.CoverImageURL {
		s.fetchCoverAsync(&updated)
	}

	return &BookOutput{Body: mapBookResponse(&updated)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.books(userID).Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	if err := s.deps.Covers.Delete(input.ID); err != nil {
		s.logger.Warn("failed to delete cover file", "book_id", input.ID, "error", err)
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted successfully"}}, nil
}

// === Helpers ===

// fetchCoverAsync caches a remote cover locally and backfills the book's
// BlurHash. Failures only cost the placeholder.
func (s *Server) fetchCoverAsync(book *domain.Book) {
	if s.deps.CoverDownloader == nil || !covers.IsRemote(book.CoverImageURL) {
		return
	}

	bookID, url := book.ID, book.CoverImageURL
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		result := s.deps.CoverDownloader.Download(ctx, bookID, url)
		if !result.Success {
			s.logger.Warn("cover download failed", "book_id", bookID, "error", result.Error)
			return
		}

		current, err := s.deps.Store.GetBook(ctx, bookID)
		if err != nil {
			return
		}
		// The book may have been re-pointed at a different cover meanwhile.
		if current.CoverImageURL != url {
			return
		}
		current.CoverBlurHash = result.BlurHash
		if err := s.deps.Store.UpdateBook(ctx, current); err != nil {
			s.logger.Warn("failed to store cover blurhash", "book_id", bookID, "error", err)
		}
	}()
}

func domainBookFromRequest(req BookRequest) domain.Book {
	return domain.Book{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		TotalPages:    req.TotalPages,
		CoverImageURL: req.CoverImageURL,
	}
}

func mapBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Title:          b.Title,
		Author:         b.Author,
		Genre:          b.Genre,
		TotalPages:     b.TotalPages,
		CoverImageURL:  b.CoverImageURL,
		CoverBlurHash:  b.CoverBlurHash,
		AddedTimestamp: b.AddedAt,
		AddedDate:      b.FormattedDate(),
	}
}

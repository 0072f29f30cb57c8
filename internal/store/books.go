package store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// Book Operations

// CreateBook writes a new book record and indexes it for search.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := s.Books.Create(ctx, book.ID, book); err != nil {
		return err
	}

	s.indexBookAsync(book)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("user_id", book.UserID),
		)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.Books.Get(ctx, id)
}

// ListBooksByUser returns all of a user's books ordered by added
// timestamp descending. Ties keep store return order.
func (s *Store) ListBooksByUser(ctx context.Context, userID string) ([]*domain.Book, error) {
	books, err := s.Books.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].AddedAt.After(books[j].AddedAt)
	})
	return books, nil
}

// ListAllBooks returns every book record regardless of owner. Used for
// search reindexing, not by request handlers.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// UpdateBook overwrites the full record at the book's ID.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := s.Books.Update(ctx, book.ID, book); err != nil {
		return err
	}

	s.indexBookAsync(book)
	return nil
}

// DeleteBook removes a book record and its search entry.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := s.Books.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteBook(context.Background(), id); err != nil && s.logger != nil {
				s.logger.Warn("failed to remove book from search index", "id", id, "error", err)
			}
		}()
	}
	return nil
}

// indexBookAsync updates the search index off the write path.
func (s *Store) indexBookAsync(book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	b := *book
	go func() {
		if err := s.searchIndexer.IndexBook(context.Background(), &b); err != nil && s.logger != nil {
			s.logger.Warn("failed to index book for search", "id", b.ID, "error", err)
		}
	}()
}

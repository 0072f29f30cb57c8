// Package repo implements the data access layers mediating entity CRUD
// against the document store, enforcing authentication and ownership.
package repo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/errors"
	"github.com/bookhiveapp/bookhive-server/internal/id"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// BookStore is the slice of the document store the book repository uses.
// *store.Store satisfies it.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooksByUser(ctx context.Context, userID string) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	Watch(collection string, fn func(store.ChangeEvent)) *store.WatchHandle
	Unwatch(handle *store.WatchHandle)
}

// BookRepository mediates book CRUD for one caller identity.
//
// The identity is read at the start of every operation; a sign-out
// concurrent with an in-flight call does not affect checks already made.
type BookRepository struct {
	store    BookStore
	identity account.IdentityProvider
	logger   *slog.Logger

	mu    sync.Mutex
	watch *store.WatchHandle
}

// NewBookRepository creates a book repository bound to an identity provider.
func NewBookRepository(bookStore BookStore, identity account.IdentityProvider, logger *slog.Logger) *BookRepository {
	return &BookRepository{
		store:    bookStore,
		identity: identity,
		logger:   logger,
	}
}

// Create writes a new book owned by the caller. The input's ID, owner,
// and added timestamp are overwritten regardless of what the caller sent.
func (r *BookRepository) Create(ctx context.Context, book domain.Book) (*domain.Book, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return nil, errors.ErrUnauthenticated
	}

	book.ID = id.MustGenerate("book")
	book.UserID = userID
	book.AddedAt = time.Now()

	if err := r.store.CreateBook(ctx, &book); err != nil {
		return nil, errors.Backend(err.Error())
	}
	return &book, nil
}

// ListByCurrentUser returns the caller's books, most recently added first.
func (r *BookRepository) ListByCurrentUser(ctx context.Context) ([]*domain.Book, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return nil, errors.ErrUnauthenticated
	}

	books, err := r.store.ListBooksByUser(ctx, userID)
	if err != nil {
		return nil, errors.Backend(err.Error())
	}
	return books, nil
}

// GetByID is a point read with no ownership check; records are
// world-readable by key.
func (r *BookRepository) GetByID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := r.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Book not found")
		}
		return nil, errors.Backend(err.Error())
	}
	return book, nil
}

// Update overwrites the full record at bookID. The ownership check runs
// against the submitted record's owner field.
func (r *BookRepository) Update(ctx context.Context, bookID string, book domain.Book) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}
	if book.UserID != userID {
		return errors.Forbidden("Unauthorized to edit this book")
	}

	book.ID = bookID
	if err := r.store.UpdateBook(ctx, &book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("Book not found")
		}
		return errors.Backend(err.Error())
	}
	return nil
}

// Delete reads the record first and removes it only when the caller owns
// it. A missing record reports the same way as foreign ownership. The
// read and the delete are not atomic against concurrent mutation.
func (r *BookRepository) Delete(ctx context.Context, bookID string) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}

	book, err := r.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.Forbidden("Unauthorized to delete this book")
		}
		return errors.Backend(err.Error())
	}
	if book.UserID != userID {
		return errors.Forbidden("Unauthorized to delete this book")
	}

	if err := r.store.DeleteBook(ctx, bookID); err != nil {
		return errors.Backend(err.Error())
	}
	return nil
}

// Subscribe opens a standing subscription delivering the caller's full
// book list on every collection change, plus once immediately. A second
// Subscribe replaces the previous subscription; the old one is detached
// rather than leaked.
func (r *BookRepository) Subscribe(ctx context.Context, fn func([]*domain.Book)) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}

	deliver := func() {
		books, err := r.store.ListBooksByUser(ctx, userID)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("book subscription refresh failed", "user_id", userID, "error", err)
			}
			return
		}
		fn(books)
	}

	r.mu.Lock()
	if r.watch != nil {
		r.store.Unwatch(r.watch)
	}
	r.watch = r.store.Watch(store.BooksCollection, func(store.ChangeEvent) {
		deliver()
	})
	r.mu.Unlock()

	deliver()
	return nil
}

// Unsubscribe detaches the standing subscription. Idempotent.
func (r *BookRepository) Unsubscribe() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watch != nil {
		r.store.Unwatch(r.watch)
		r.watch = nil
	}
}

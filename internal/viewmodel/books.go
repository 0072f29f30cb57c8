package viewmodel

import (
	"context"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/repo"
)

// BookViewModel publishes the caller's library and the outcome of book
// writes. Every successful write re-fetches the full list rather than
// patching the snapshot in place.
type BookViewModel struct {
	repo *repo.BookRepository

	Busy    *Value[bool]
	Outcome *Value[Outcome]
	Books   *Value[[]*domain.Book]
}

// NewBookViewModel creates an adapter over the book access layer.
func NewBookViewModel(r *repo.BookRepository) *BookViewModel {
	return &BookViewModel{
		repo:    r,
		Busy:    NewValue(false),
		Outcome: NewValue(Outcome{}),
		Books:   NewValue[[]*domain.Book](nil),
	}
}

// Start opens the standing library subscription feeding Books.
func (vm *BookViewModel) Start(ctx context.Context) error {
	return vm.repo.Subscribe(ctx, vm.Books.Set)
}

// Close detaches the subscription so no snapshot lands after teardown.
func (vm *BookViewModel) Close() {
	vm.repo.Unsubscribe()
}

// Refresh re-reads the full list into Books.
func (vm *BookViewModel) Refresh(ctx context.Context) {
	books, err := vm.repo.ListByCurrentUser(ctx)
	if err != nil {
		vm.Outcome.Set(outcomeOf(err, ""))
		return
	}
	vm.Books.Set(books)
}

// AddBook writes a new book and publishes the outcome.
func (vm *BookViewModel) AddBook(ctx context.Context, book domain.Book) {
	vm.Busy.Set(true)
	_, err := vm.repo.Create(ctx, book)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Book added successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}

// UpdateBook overwrites the book at id and publishes the outcome.
func (vm *BookViewModel) UpdateBook(ctx context.Context, id string, book domain.Book) {
	vm.Busy.Set(true)
	err := vm.repo.Update(ctx, id, book)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Book updated successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}

// DeleteBook removes the book at id and publishes the outcome.
func (vm *BookViewModel) DeleteBook(ctx context.Context, id string) {
	vm.Busy.Set(true)
	err := vm.repo.Delete(ctx, id)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Book deleted successfully"))
	if err == nil {
		vm.Refresh(ctx)
	}
}

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// mutableIdentity lets a test change the signed-in user mid-flight.
type mutableIdentity struct {
	userID string
}

func (m *mutableIdentity) CurrentIdentity() (string, bool) {
	return m.userID, m.userID != ""
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// spyBookStore counts every store call so tests can prove that
// unauthenticated operations never reach the store.
type spyBookStore struct {
	calls   int
	watches int
	removed int
}

func (s *spyBookStore) CreateBook(context.Context, *domain.Book) error { s.calls++; return nil }
func (s *spyBookStore) GetBook(context.Context, string) (*domain.Book, error) {
	s.calls++
	return nil, store.ErrNotFound
}
func (s *spyBookStore) ListBooksByUser(context.Context, string) ([]*domain.Book, error) {
	s.calls++
	return nil, nil
}
func (s *spyBookStore) UpdateBook(context.Context, *domain.Book) error { s.calls++; return nil }
func (s *spyBookStore) DeleteBook(context.Context, string) error       { s.calls++; return nil }
func (s *spyBookStore) Watch(string, func(store.ChangeEvent)) *store.WatchHandle {
	s.watches++
	return &store.WatchHandle{}
}
func (s *spyBookStore) Unwatch(*store.WatchHandle) { s.removed++ }

var _ BookStore = (*spyBookStore)(nil)
var _ BookStore = (*store.Store)(nil)
var _ ReadingLogStore = (*store.Store)(nil)
var _ ProfileStore = (*store.Store)(nil)

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

func TestWatch_DeliversCollectionChanges(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var events []store.ChangeEvent
	handle := s.Watch(store.BooksCollection, func(e store.ChangeEvent) {
		events = append(events, e)
	})
	defer s.Unwatch(handle)

	book := &domain.Book{ID: "b1", UserID: "u1", Title: "Dune"}
	require.NoError(t, s.CreateBook(ctx, book))

	book.Title = "Dune Messiah"
	require.NoError(t, s.UpdateBook(ctx, book))
	require.NoError(t, s.DeleteBook(ctx, "b1"))

	require.Len(t, events, 3)
	assert.Equal(t, store.OpCreate, events[0].Op)
	assert.Equal(t, store.OpUpdate, events[1].Op)
	assert.Equal(t, store.OpDelete, events[2].Op)
	assert.Equal(t, "b1", events[0].ID)
}

func TestWatch_ScopedToCollection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var bookEvents int
	handle := s.Watch(store.BooksCollection, func(store.ChangeEvent) {
		bookEvents++
	})
	defer s.Unwatch(handle)

	require.NoError(t, s.CreateLog(ctx, &domain.ReadingLog{ID: "l1", UserID: "u1"}))
	assert.Zero(t, bookEvents)

	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "b1", UserID: "u1"}))
	assert.Equal(t, 1, bookEvents)
}

func TestWatch_NoDeleteEventWhenRecordAbsent(t *testing.T) {
	s := setupTestStore(t)

	var events int
	handle := s.Watch(store.BooksCollection, func(store.ChangeEvent) {
		events++
	})
	defer s.Unwatch(handle)

	require.NoError(t, s.DeleteBook(context.Background(), "missing"))
	assert.Zero(t, events)
}

func TestUnwatch_StopsDelivery(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var events int
	handle := s.Watch(store.BooksCollection, func(store.ChangeEvent) {
		events++
	})

	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "b1", UserID: "u1"}))
	s.Unwatch(handle)
	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "b2", UserID: "u1"}))

	assert.Equal(t, 1, events)
}

func TestUnwatch_Idempotent(t *testing.T) {
	s := setupTestStore(t)

	handle := s.Watch(store.BooksCollection, func(store.ChangeEvent) {})

	s.Unwatch(handle)
	s.Unwatch(handle)
	s.Unwatch(nil)
}

type recordingEmitter struct {
	events []any
}

func (r *recordingEmitter) Emit(event any) { r.events = append(r.events, event) }

func TestStore_EmitsChangeEvents(t *testing.T) {
	emitter := &recordingEmitter{}
	s, err := store.New(t.TempDir(), nil, emitter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.CreateBook(context.Background(), &domain.Book{ID: "b1", UserID: "u1"}))

	require.Len(t, emitter.events, 1)
	change, ok := emitter.events[0].(store.ChangeEvent)
	require.True(t, ok)
	assert.Equal(t, store.BooksCollection, change.Collection)
	assert.Equal(t, store.OpCreate, change.Op)
}

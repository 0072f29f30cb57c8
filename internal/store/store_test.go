package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

func TestStore_ListBooksByUser_SortedByAddedAtDescending(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		err := s.CreateBook(ctx, &domain.Book{
			ID:      title,
			UserID:  "user-1",
			Title:   title,
			AddedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	books, err := s.ListBooksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "newest", books[0].Title)
	assert.Equal(t, "middle", books[1].Title)
	assert.Equal(t, "oldest", books[2].Title)
}

func TestStore_ListBooksByUser_ScopedToOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "b1", UserID: "user-1", Title: "mine"}))
	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "b2", UserID: "user-2", Title: "theirs"}))

	books, err := s.ListBooksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "mine", books[0].Title)
}

func TestStore_ListLogsByUser_SortedByTimestampDescending(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"l1", "l2", "l3"} {
		err := s.CreateLog(ctx, &domain.ReadingLog{
			ID:        id,
			UserID:    "user-1",
			BookTitle: "Dune",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	logs, err := s.ListLogsByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "l3", logs[0].ID)
	assert.Equal(t, "l1", logs[2].ID)
}

func TestStore_ListLogsByBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLog(ctx, &domain.ReadingLog{ID: "l1", UserID: "u", BookID: "b1"}))
	require.NoError(t, s.CreateLog(ctx, &domain.ReadingLog{ID: "l2", UserID: "u", BookID: "b2"}))
	require.NoError(t, s.CreateLog(ctx, &domain.ReadingLog{ID: "l3", UserID: "u"}))

	logs, err := s.ListLogsByBook(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "l1", logs[0].ID)
}

func TestStore_UpdateProfileFields_Partial(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.CreateProfile(ctx, &domain.UserProfile{
		ID:       "user-1",
		UserName: "Alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	err = s.UpdateProfileFields(ctx, "user-1", map[string]any{
		"userName": "Alice B",
		"photoUrl": "https://example.com/a.png",
	})
	require.NoError(t, err)

	profile, err := s.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", profile.UserName)
	assert.Equal(t, "https://example.com/a.png", profile.PhotoURL)
	// Unnamed fields are untouched.
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestStore_UpdateProfileFields_UnknownFieldRejected(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-1"}))

	err := s.UpdateProfileFields(ctx, "user-1", map[string]any{"bogus": "x"})
	require.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestStore_Credentials_EmailCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.CreateCredential(ctx, &domain.Credential{
		ID:    "user-1",
		Email: "Reader@Example.com",
	})
	require.NoError(t, err)

	cred, err := s.GetCredentialByEmail(ctx, "reader@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cred.ID)

	// Same email with different casing is a conflict.
	err = s.CreateCredential(ctx, &domain.Credential{ID: "user-2", Email: "READER@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestStore_DeleteAllUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mk := func(id, user, hash string) *domain.Session {
		return &domain.Session{
			ID:               id,
			UserID:           user,
			RefreshTokenHash: hash,
			ExpiresAt:        time.Now().Add(time.Hour),
		}
	}
	require.NoError(t, s.CreateSession(ctx, mk("s1", "user-1", "h1")))
	require.NoError(t, s.CreateSession(ctx, mk("s2", "user-1", "h2")))
	require.NoError(t, s.CreateSession(ctx, mk("s3", "user-2", "h3")))

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-1"))

	_, err := s.GetSession(ctx, "s1")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetSession(ctx, "s3")
	require.NoError(t, err)
}

func TestStore_DeleteExpiredSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, &domain.Session{
		ID: "live", UserID: "u", RefreshTokenHash: "h1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, s.CreateSession(ctx, &domain.Session{
		ID: "stale", UserID: "u", RefreshTokenHash: "h2",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	deleted, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.GetSession(ctx, "live")
	require.NoError(t, err)
}

package store

import (
	"context"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// Session Operations

// CreateSession writes a new sign-in session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	return s.Sessions.Create(ctx, session.ID, session)
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.Sessions.Get(ctx, id)
}

// GetSessionByRefreshToken retrieves a session by refresh token hash.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return s.Sessions.GetByIndex(ctx, "refresh", tokenHash)
}

// UpdateSession overwrites a session record.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	return s.Sessions.Update(ctx, session.ID, session)
}

// DeleteSession removes a session. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.Sessions.Delete(ctx, id)
}

// DeleteAllUserSessions removes every session belonging to a user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.Sessions.ListByIndex(ctx, "user", userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.Sessions.Delete(ctx, session.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry and
// returns how many were deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	deleted := 0
	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return deleted, err
		}
		if session.IsExpired() {
			if err := s.Sessions.Delete(ctx, session.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}

package store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// Reading Log Operations

// CreateLog writes a new reading log record.
func (s *Store) CreateLog(ctx context.Context, log *domain.ReadingLog) error {
	if err := s.Logs.Create(ctx, log.ID, log); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "reading log created",
			slog.String("id", log.ID),
			slog.String("book_title", log.BookTitle),
			slog.String("user_id", log.UserID),
			slog.Int("pages_read", log.PagesRead),
		)
	}
	return nil
}

// GetLog retrieves a reading log by ID.
func (s *Store) GetLog(ctx context.Context, id string) (*domain.ReadingLog, error) {
	return s.Logs.Get(ctx, id)
}

// ListLogsByUser returns all of a user's reading logs ordered by
// timestamp descending. Ties keep store return order.
func (s *Store) ListLogsByUser(ctx context.Context, userID string) ([]*domain.ReadingLog, error) {
	logs, err := s.Logs.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// ListLogsByBook returns all logs referencing a book, newest first.
func (s *Store) ListLogsByBook(ctx context.Context, bookID string) ([]*domain.ReadingLog, error) {
	logs, err := s.Logs.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// UpdateLog overwrites the full record at the log's ID.
func (s *Store) UpdateLog(ctx context.Context, log *domain.ReadingLog) error {
	return s.Logs.Update(ctx, log.ID, log)
}

// DeleteLog removes a reading log record.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	return s.Logs.Delete(ctx, id)
}

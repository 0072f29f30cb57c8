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

// ReadingLogStore is the slice of the document store the reading log
// repository uses. *store.Store satisfies it.
type ReadingLogStore interface {
	CreateLog(ctx context.Context, log *domain.ReadingLog) error
	GetLog(ctx context.Context, id string) (*domain.ReadingLog, error)
	ListLogsByUser(ctx context.Context, userID string) ([]*domain.ReadingLog, error)
	UpdateLog(ctx context.Context, log *domain.ReadingLog) error
	DeleteLog(ctx context.Context, id string) error

	Watch(collection string, fn func(store.ChangeEvent)) *store.WatchHandle
	Unwatch(handle *store.WatchHandle)
}

// ReadingLogRepository mediates reading log CRUD and the derived daily
// and monthly statistics.
type ReadingLogRepository struct {
	store    ReadingLogStore
	identity account.IdentityProvider
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	watch *store.WatchHandle
}

// NewReadingLogRepository creates a reading log repository bound to an
// identity provider.
func NewReadingLogRepository(logStore ReadingLogStore, identity account.IdentityProvider, logger *slog.Logger) *ReadingLogRepository {
	return &ReadingLogRepository{
		store:    logStore,
		identity: identity,
		logger:   logger,
		now:      time.Now,
	}
}

// Create writes a new reading log owned by the caller. The input's ID,
// owner, and timestamp are overwritten.
func (r *ReadingLogRepository) Create(ctx context.Context, log domain.ReadingLog) (*domain.ReadingLog, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return nil, errors.ErrUnauthenticated
	}

	log.ID = id.MustGenerate("log")
	log.UserID = userID
	log.Timestamp = r.now()

	if err := r.store.CreateLog(ctx, &log); err != nil {
		return nil, errors.Backend(err.Error())
	}
	return &log, nil
}

// ListByCurrentUser returns the caller's logs, most recent first.
func (r *ReadingLogRepository) ListByCurrentUser(ctx context.Context) ([]*domain.ReadingLog, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return nil, errors.ErrUnauthenticated
	}

	logs, err := r.store.ListLogsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Backend(err.Error())
	}
	return logs, nil
}

// GetByID is a point read with no ownership check.
func (r *ReadingLogRepository) GetByID(ctx context.Context, logID string) (*domain.ReadingLog, error) {
	log, err := r.store.GetLog(ctx, logID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Reading log not found")
		}
		return nil, errors.Backend(err.Error())
	}
	return log, nil
}

// Update overwrites the full record at logID, checking the submitted
// record's owner against the caller.
func (r *ReadingLogRepository) Update(ctx context.Context, logID string, log domain.ReadingLog) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}
	if log.UserID != userID {
		return errors.Forbidden("Unauthorized to edit this log")
	}

	log.ID = logID
	if err := r.store.UpdateLog(ctx, &log); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("Reading log not found")
		}
		return errors.Backend(err.Error())
	}
	return nil
}

// Delete reads the record first and removes it only when the caller owns
// it. A missing record reports the same way as foreign ownership.
func (r *ReadingLogRepository) Delete(ctx context.Context, logID string) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}

	log, err := r.store.GetLog(ctx, logID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.Forbidden("Unauthorized to delete this log")
		}
		return errors.Backend(err.Error())
	}
	if log.UserID != userID {
		return errors.Forbidden("Unauthorized to delete this log")
	}

	if err := r.store.DeleteLog(ctx, logID); err != nil {
		return errors.Backend(err.Error())
	}
	return nil
}

// PagesReadToday sums pages across the caller's logs dated today, by
// either the literal "Today" label or today's formatted date.
func (r *ReadingLogRepository) PagesReadToday(ctx context.Context) (int, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return 0, errors.ErrUnauthenticated
	}

	logs, err := r.store.ListLogsByUser(ctx, userID)
	if err != nil {
		return 0, errors.Backend(err.Error())
	}

	today := r.now()
	total := 0
	for _, log := range logs {
		if log.CountsForDay(today) {
			total += log.PagesRead
		}
	}
	return total, nil
}

// BooksReadThisMonth counts the distinct book titles the caller logged
// in the current wall-clock month.
func (r *ReadingLogRepository) BooksReadThisMonth(ctx context.Context) (int, error) {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return 0, errors.ErrUnauthenticated
	}

	logs, err := r.store.ListLogsByUser(ctx, userID)
	if err != nil {
		return 0, errors.Backend(err.Error())
	}

	now := r.now()
	titles := make(map[string]struct{})
	for _, log := range logs {
		if log.Timestamp.Year() == now.Year() && log.Timestamp.Month() == now.Month() {
			titles[log.BookTitle] = struct{}{}
		}
	}
	return len(titles), nil
}

// Subscribe opens a standing subscription delivering the caller's full
// log list on every collection change, plus once immediately. Replaces
// any previous subscription on this repository.
func (r *ReadingLogRepository) Subscribe(ctx context.Context, fn func([]*domain.ReadingLog)) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}

	deliver := func() {
		logs, err := r.store.ListLogsByUser(ctx, userID)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("reading log subscription refresh failed", "user_id", userID, "error", err)
			}
			return
		}
		fn(logs)
	}

	r.mu.Lock()
	if r.watch != nil {
		r.store.Unwatch(r.watch)
	}
	r.watch = r.store.Watch(store.LogsCollection, func(store.ChangeEvent) {
		deliver()
	})
	r.mu.Unlock()

	deliver()
	return nil
}

// Unsubscribe detaches the standing subscription. Idempotent.
func (r *ReadingLogRepository) Unsubscribe() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watch != nil {
		r.store.Unwatch(r.watch)
		r.watch = nil
	}
}

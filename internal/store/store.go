package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// Collection key prefixes.
const (
	BooksCollection       = "book:"
	LogsCollection        = "log:"
	ProfilesCollection    = "profile:"
	CredentialsCollection = "cred:"
	SessionsCollection    = "session:"
	InstancesCollection   = "instance:"
)

// Op identifies the kind of mutation behind a change notification.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent is broadcast to the event emitter on every committed mutation.
type ChangeEvent struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Op         Op     `json:"op"`

	// Owner is the user the changed record belongs to, when the entity
	// declares one. Used for delivery filtering, never serialized.
	Owner string `json:"-"`
}

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search implementation.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// SSE event emitter for broadcasting changes.
	eventEmitter EventEmitter

	// Search indexer for keeping book search in sync with store changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Standing change subscriptions, per collection prefix.
	watchers *watcherRegistry

	// Generic entities
	Books       *Entity[domain.Book]
	Logs        *Entity[domain.ReadingLog]
	Profiles    *Entity[domain.UserProfile]
	Credentials *Entity[domain.Credential]
	Sessions    *Entity[domain.Session]
	Instances   *Entity[domain.Instance]
}

// New creates a new Store instance with the given database path and event emitter.
// The emitter is required and used to broadcast store changes via SSE.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
		watchers:     newWatcherRegistry(),
	}

	store.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies
// (store needs to exist before search service can be created).
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

// Watch registers a callback invoked after every committed mutation in
// the given collection. The callback runs synchronously on the mutating
// goroutine; keep it short and hand heavy work to another goroutine.
func (s *Store) Watch(collection string, fn func(ChangeEvent)) *WatchHandle {
	return s.watchers.add(collection, fn)
}

// Unwatch detaches a standing subscription. Safe to call more than once
// and with a nil handle.
func (s *Store) Unwatch(handle *WatchHandle) {
	s.watchers.remove(handle)
}

// notifyChange fans a committed mutation out to collection watchers and
// the SSE emitter.
func (s *Store) notifyChange(collection, id string, op Op, owner string) {
	event := ChangeEvent{Collection: collection, ID: id, Op: op, Owner: owner}
	s.watchers.notify(event)
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// initEntities wires up the generic entities and their indexes.
func (s *Store) initEntities() {
	// Books and logs are owned records; the user index is one-to-many.
	s.Books = NewEntity[domain.Book](s, BooksCollection).
		WithIndex("user", func(b *domain.Book) []string {
			return []string{b.UserID}
		}).
		WithOwner(func(b *domain.Book) string { return b.UserID })

	s.Logs = NewEntity[domain.ReadingLog](s, LogsCollection).
		WithIndex("user", func(l *domain.ReadingLog) []string {
			return []string{l.UserID}
		}).
		WithIndex("book", func(l *domain.ReadingLog) []string {
			if l.BookID == "" {
				return nil
			}
			return []string{l.BookID}
		}).
		WithOwner(func(l *domain.ReadingLog) string { return l.UserID })

	// A profile's key is its owning user.
	s.Profiles = NewEntity[domain.UserProfile](s, ProfilesCollection).
		WithOwner(func(p *domain.UserProfile) string { return p.ID })

	// Credentials use case-insensitive unique email indexing.
	s.Credentials = NewEntity[domain.Credential](s, CredentialsCollection).
		WithUniqueIndex("email",
			func(c *domain.Credential) []string {
				return []string{normalizeEmail(c.Email)}
			},
			normalizeEmail,
		)

	s.Sessions = NewEntity[domain.Session](s, SessionsCollection).
		WithIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		}).
		WithUniqueIndex("refresh",
			func(sess *domain.Session) []string {
				return []string{sess.RefreshTokenHash}
			},
			nil,
		)

	s.Instances = NewEntity[domain.Instance](s, InstancesCollection)
}

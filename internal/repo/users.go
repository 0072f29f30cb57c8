package repo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/errors"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// ProfileStore is the slice of the document store the user repository
// uses. *store.Store satisfies it.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *domain.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfileFields(ctx context.Context, userID string, fields map[string]any) error
	DeleteProfile(ctx context.Context, userID string) error

	Watch(collection string, fn func(store.ChangeEvent)) *store.WatchHandle
	Unwatch(handle *store.WatchHandle)
}

// AccountService covers the credential side of the user repository.
// *account.Service satisfies it.
type AccountService interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (*account.SignInResult, error)
	SignOut(ctx context.Context, sessionID string) error
	SendPasswordReset(ctx context.Context, email string) error
	Reauthenticate(ctx context.Context, userID, currentPassword string) error
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// UserRepository coordinates account credentials and profile documents.
// Registration is two-phase: the credential record first, the profile
// second, so a crash in between leaves an account without a profile.
type UserRepository struct {
	store    ProfileStore
	accounts AccountService
	identity account.IdentityProvider
	logger   *slog.Logger

	mu    sync.Mutex
	watch *store.WatchHandle
}

// NewUserRepository creates a user repository bound to an identity provider.
func NewUserRepository(profileStore ProfileStore, accounts AccountService, identity account.IdentityProvider, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		store:    profileStore,
		accounts: accounts,
		identity: identity,
		logger:   logger,
	}
}

// Register creates the account credential and returns the new user
// identifier. The profile document is written separately via AddProfile.
func (r *UserRepository) Register(ctx context.Context, email, password string) (string, error) {
	return r.accounts.CreateAccount(ctx, email, password)
}

// AddProfile writes the profile document keyed by the account identifier.
func (r *UserRepository) AddProfile(ctx context.Context, userID string, profile domain.UserProfile) error {
	profile.ID = userID
	if err := r.store.CreateProfile(ctx, &profile); err != nil {
		return errors.Backend(err.Error())
	}
	return nil
}

// Login authenticates by email and password and opens a session.
func (r *UserRepository) Login(ctx context.Context, email, password string) (*account.SignInResult, error) {
	return r.accounts.SignIn(ctx, email, password)
}

// Logout closes the given session. Succeeds even when the session is
// already gone.
func (r *UserRepository) Logout(ctx context.Context, sessionID string) error {
	return r.accounts.SignOut(ctx, sessionID)
}

// ForgotPassword dispatches a password reset for the given email.
func (r *UserRepository) ForgotPassword(ctx context.Context, email string) error {
	return r.accounts.SendPasswordReset(ctx, email)
}

// Reauthenticate verifies the caller's current password.
func (r *UserRepository) Reauthenticate(ctx context.Context, currentPassword string) error {
	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}
	return r.accounts.Reauthenticate(ctx, userID, currentPassword)
}

// ChangePassword verifies the current password and then replaces it.
// The reauthentication must succeed before any update is attempted.
func (r *UserRepository) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.Validation("Password must be at least 8 characters")
	}

	userID, ok := r.identity.CurrentIdentity()
	if !ok {
		return errors.ErrUnauthenticated
	}

	if err := r.accounts.Reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}
	return r.accounts.UpdatePassword(ctx, userID, newPassword)
}

// DeleteAccount removes the credential first and the profile second.
// When the credential delete succeeds but the profile delete fails, the
// account is gone and the error says so explicitly.
func (r *UserRepository) DeleteAccount(ctx context.Context, userID string) error {
	if _, ok := r.identity.CurrentIdentity(); !ok {
		return errors.ErrUnauthenticated
	}

	if err := r.accounts.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	if err := r.store.DeleteProfile(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return errors.PartialFailuref("Account deleted from auth but database cleanup failed: %s", err)
	}
	return nil
}

// EditProfile applies a partial update to the profile document. An empty
// field map is rejected rather than silently succeeding.
func (r *UserRepository) EditProfile(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return errors.Validation("No changes to update")
	}

	if err := r.store.UpdateProfileFields(ctx, userID, fields); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return errors.NotFound("User not found")
		case errors.Is(err, store.ErrInvalidInput):
			return errors.Validation(err.Error())
		default:
			return errors.Backend(err.Error())
		}
	}
	return nil
}

// GetProfile is a point read of a profile document.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := r.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("User not found")
		}
		return nil, errors.Backend(err.Error())
	}
	return profile, nil
}

// Subscribe opens a standing subscription delivering the profile for
// userID on every profile collection change, plus once immediately.
// Replaces any previous subscription on this repository. A missing
// profile delivers nil so listeners can render a signed-out state.
func (r *UserRepository) Subscribe(ctx context.Context, userID string, fn func(*domain.UserProfile)) error {
	deliver := func() {
		profile, err := r.store.GetProfile(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			if r.logger != nil {
				r.logger.Warn("profile subscription refresh failed", "user_id", userID, "error", err)
			}
			return
		}
		fn(profile)
	}

	r.mu.Lock()
	if r.watch != nil {
		r.store.Unwatch(r.watch)
	}
	r.watch = r.store.Watch(store.ProfilesCollection, func(ev store.ChangeEvent) {
		if ev.ID != userID {
			return
		}
		deliver()
	})
	r.mu.Unlock()

	deliver()
	return nil
}

// Unsubscribe detaches the standing profile subscription. Idempotent.
func (r *UserRepository) Unsubscribe() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watch != nil {
		r.store.Unwatch(r.watch)
		r.watch = nil
	}
}

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/errors"
)

// fakeAccounts records the order of credential operations.
type fakeAccounts struct {
	ops       []string
	reauthErr error
	deleteErr error
}

func (f *fakeAccounts) CreateAccount(_ context.Context, email, _ string) (string, error) {
	f.ops = append(f.ops, "create")
	return "user-" + email, nil
}

func (f *fakeAccounts) SignIn(context.Context, string, string) (*account.SignInResult, error) {
	f.ops = append(f.ops, "signin")
	return &account.SignInResult{UserID: "user-1"}, nil
}

func (f *fakeAccounts) SignOut(context.Context, string) error {
	f.ops = append(f.ops, "signout")
	return nil
}

func (f *fakeAccounts) SendPasswordReset(context.Context, string) error {
	f.ops = append(f.ops, "reset")
	return nil
}

func (f *fakeAccounts) Reauthenticate(context.Context, string, string) error {
	f.ops = append(f.ops, "reauth")
	return f.reauthErr
}

func (f *fakeAccounts) UpdatePassword(context.Context, string, string) error {
	f.ops = append(f.ops, "update")
	return nil
}

func (f *fakeAccounts) DeleteAccount(context.Context, string) error {
	f.ops = append(f.ops, "delete")
	return f.deleteErr
}

var _ AccountService = (*fakeAccounts)(nil)
var _ AccountService = (*account.Service)(nil)

// stubProfileStore wraps a real store but lets a test force the profile
// delete to fail.
type stubProfileStore struct {
	ProfileStore
	deleteErr error
}

func (s *stubProfileStore) DeleteProfile(ctx context.Context, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.ProfileStore.DeleteProfile(ctx, userID)
}

func TestChangePassword_ReauthenticatesBeforeUpdating(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewUserRepository(newTestStore(t), accounts, account.StaticIdentity("user-1"), nil)

	require.NoError(t, r.ChangePassword(context.Background(), "old-password", "new-password"))
	assert.Equal(t, []string{"reauth", "update"}, accounts.ops)
}

func TestChangePassword_ShortPasswordRejectedUpFront(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewUserRepository(newTestStore(t), accounts, account.StaticIdentity("user-1"), nil)

	err := r.ChangePassword(context.Background(), "old-password", "short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.EqualError(t, err, "Password must be at least 8 characters")
	assert.Empty(t, accounts.ops)
}

func TestChangePassword_ReauthFailureStopsUpdate(t *testing.T) {
	accounts := &fakeAccounts{reauthErr: errors.InvalidCredentials("The supplied auth credential is incorrect, malformed or has expired.")}
	r := NewUserRepository(newTestStore(t), accounts, account.StaticIdentity("user-1"), nil)

	err := r.ChangePassword(context.Background(), "wrong", "new-password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	assert.Equal(t, []string{"reauth"}, accounts.ops)
}

func TestChangePassword_Unauthenticated(t *testing.T) {
	accounts := &fakeAccounts{}
	r := NewUserRepository(newTestStore(t), accounts, account.StaticIdentity(""), nil)

	err := r.ChangePassword(context.Background(), "old-password", "new-password")
	assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	assert.Empty(t, accounts.ops)
}

func TestDeleteAccount_RemovesCredentialThenProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-1", UserName: "alice"}))

	accounts := &fakeAccounts{}
	r := NewUserRepository(s, accounts, account.StaticIdentity("user-1"), nil)

	require.NoError(t, r.DeleteAccount(ctx, "user-1"))
	assert.Equal(t, []string{"delete"}, accounts.ops)

	_, err := s.GetProfile(ctx, "user-1")
	require.Error(t, err)
}

func TestDeleteAccount_CredentialFailureIsBackend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-1"}))

	accounts := &fakeAccounts{deleteErr: errors.Backend("auth backend unavailable")}
	r := NewUserRepository(s, accounts, account.StaticIdentity("user-1"), nil)

	err := r.DeleteAccount(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBackend))

	// The credential delete failed, so the profile must survive.
	_, err = s.GetProfile(ctx, "user-1")
	require.NoError(t, err)
}

func TestDeleteAccount_ProfileCleanupFailureIsPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profiles := &stubProfileStore{ProfileStore: s, deleteErr: assertableErr("disk full")}
	accounts := &fakeAccounts{}
	r := NewUserRepository(profiles, accounts, account.StaticIdentity("user-1"), nil)

	err := r.DeleteAccount(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPartialFailure))
	assert.EqualError(t, err, "Account deleted from auth but database cleanup failed: disk full")
}

func TestEditProfile_RejectsEmptyFieldMap(t *testing.T) {
	s := newTestStore(t)
	r := NewUserRepository(s, &fakeAccounts{}, account.StaticIdentity("user-1"), nil)

	err := r.EditProfile(context.Background(), "user-1", map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.EqualError(t, err, "No changes to update")
}

func TestEditProfile_AppliesPartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-1", UserName: "alice", Email: "alice@example.com"}))

	r := NewUserRepository(s, &fakeAccounts{}, account.StaticIdentity("user-1"), nil)
	require.NoError(t, r.EditProfile(ctx, "user-1", map[string]any{"userName": "alicia"}))

	profile, err := s.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alicia", profile.UserName)
	assert.Equal(t, "alice@example.com", profile.Email)

	err = r.EditProfile(ctx, "user-missing", map[string]any{"userName": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = r.EditProfile(ctx, "user-1", map[string]any{"favoriteColor": "teal"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestProfileSubscribe_TracksOneUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-1", UserName: "alice"}))
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{ID: "user-2", UserName: "bob"}))

	r := NewUserRepository(s, &fakeAccounts{}, account.StaticIdentity("user-1"), nil)

	var deliveries []*domain.UserProfile
	require.NoError(t, r.Subscribe(ctx, "user-1", func(p *domain.UserProfile) {
		deliveries = append(deliveries, p)
	}))
	t.Cleanup(r.Unsubscribe)

	require.Len(t, deliveries, 1)
	assert.Equal(t, "alice", deliveries[0].UserName)

	require.NoError(t, s.UpdateProfileFields(ctx, "user-1", map[string]any{"userName": "alicia"}))
	require.Len(t, deliveries, 2)
	assert.Equal(t, "alicia", deliveries[1].UserName)

	// Changes to other profiles do not wake this subscription.
	require.NoError(t, s.UpdateProfileFields(ctx, "user-2", map[string]any{"userName": "bobby"}))
	assert.Len(t, deliveries, 2)
}

func TestAddProfile_KeysByAccountID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := NewUserRepository(s, &fakeAccounts{}, account.StaticIdentity("user-1"), nil)

	require.NoError(t, r.AddProfile(ctx, "user-1", domain.UserProfile{ID: "ignored", UserName: "alice", Email: "alice@example.com"}))

	profile, err := s.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "alice", profile.UserName)
}

// assertableErr is a plain error with a fixed message.
type assertableErr string

func (e assertableErr) Error() string { return string(e) }

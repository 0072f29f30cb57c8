package viewmodel

import (
	"context"
	"fmt"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/repo"
)

// UserViewModel publishes the signed-in user's profile and the outcome
// of account operations.
type UserViewModel struct {
	repo *repo.UserRepository

	Busy    *Value[bool]
	Outcome *Value[Outcome]
	Profile *Value[*domain.UserProfile]
}

// NewUserViewModel creates an adapter over the user access layer.
func NewUserViewModel(r *repo.UserRepository) *UserViewModel {
	return &UserViewModel{
		repo:    r,
		Busy:    NewValue(false),
		Outcome: NewValue(Outcome{}),
		Profile: NewValue[*domain.UserProfile](nil),
	}
}

// Watch opens the standing profile subscription feeding Profile.
func (vm *UserViewModel) Watch(ctx context.Context, userID string) error {
	return vm.repo.Subscribe(ctx, userID, vm.Profile.Set)
}

// Close detaches the profile subscription.
func (vm *UserViewModel) Close() {
	vm.repo.Unsubscribe()
}

// Register creates the account and its profile document, returning the
// new account identifier on success.
func (vm *UserViewModel) Register(ctx context.Context, email, password string, profile domain.UserProfile) (string, error) {
	vm.Busy.Set(true)
	defer vm.Busy.Set(false)

	userID, err := vm.repo.Register(ctx, email, password)
	if err != nil {
		vm.Outcome.Set(outcomeOf(err, ""))
		return "", err
	}

	if err := vm.repo.AddProfile(ctx, userID, profile); err != nil {
		vm.Outcome.Set(outcomeOf(err, ""))
		return userID, err
	}

	vm.Outcome.Set(Outcome{Success: true, Message: "Account created successfully"})
	return userID, nil
}

// Login authenticates and opens a session.
func (vm *UserViewModel) Login(ctx context.Context, email, password string) (*account.SignInResult, error) {
	vm.Busy.Set(true)
	defer vm.Busy.Set(false)

	result, err := vm.repo.Login(ctx, email, password)
	vm.Outcome.Set(outcomeOf(err, "Login successful"))
	return result, err
}

// Logout closes the session.
func (vm *UserViewModel) Logout(ctx context.Context, sessionID string) {
	err := vm.repo.Logout(ctx, sessionID)
	vm.Outcome.Set(outcomeOf(err, "Logged out"))
}

// ForgotPassword dispatches a reset email and reports where it went.
func (vm *UserViewModel) ForgotPassword(ctx context.Context, email string) {
	vm.Busy.Set(true)
	err := vm.repo.ForgotPassword(ctx, email)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, fmt.Sprintf("Reset email sent to %s", email)))
}

// ChangePassword verifies the current password and sets the new one.
func (vm *UserViewModel) ChangePassword(ctx context.Context, currentPassword, newPassword string) {
	vm.Busy.Set(true)
	err := vm.repo.ChangePassword(ctx, currentPassword, newPassword)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Password changed successfully"))
}

// DeleteAccount removes the account and its profile.
func (vm *UserViewModel) DeleteAccount(ctx context.Context, userID string) {
	vm.Busy.Set(true)
	err := vm.repo.DeleteAccount(ctx, userID)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Account deleted successfully"))
}

// EditProfile applies a partial profile update.
func (vm *UserViewModel) EditProfile(ctx context.Context, userID string, fields map[string]any) {
	vm.Busy.Set(true)
	err := vm.repo.EditProfile(ctx, userID, fields)
	vm.Busy.Set(false)

	vm.Outcome.Set(outcomeOf(err, "Profile updated successfully"))
}

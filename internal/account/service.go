package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/auth"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/errors"
	"github.com/bookhiveapp/bookhive-server/internal/id"
	"github.com/bookhiveapp/bookhive-server/internal/store"
)

// Account service messages. These read like the hosted auth providers'
// messages because clients display them verbatim.
const (
	msgEmailInUse         = "The email address is already in use by another account."
	msgBadEmail           = "The email address is badly formatted."
	msgInvalidCredentials = "The supplied auth credential is incorrect, malformed or has expired."
	msgNoAccount          = "There is no user record corresponding to this identifier."
)

// CredentialStore is the slice of the document store the account service
// uses. *store.Store satisfies it.
type CredentialStore interface {
	CreateCredential(ctx context.Context, cred *domain.Credential) error
	GetCredential(ctx context.Context, id string) (*domain.Credential, error)
	GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)
	UpdateCredential(ctx context.Context, cred *domain.Credential) error
	DeleteCredential(ctx context.Context, id string) error

	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
}

// SignInResult carries the tokens minted for a successful sign-in.
type SignInResult struct {
	UserID       string
	SessionID    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service implements account registration, sign-in, and credential
// management over the document store.
type Service struct {
	store       CredentialStore
	tokens      *auth.TokenService
	resetSender ResetSender
	logger      *slog.Logger
}

// NewService creates an account service.
func NewService(credStore CredentialStore, tokens *auth.TokenService, resetSender ResetSender, logger *slog.Logger) *Service {
	return &Service{
		store:       credStore,
		tokens:      tokens,
		resetSender: resetSender,
		logger:      logger,
	}
}

// CreateAccount registers a new account and returns its identifier.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", errors.Backend(msgBadEmail)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", errors.Backend(err.Error())
	}

	now := time.Now()
	cred := &domain.Credential{
		ID:           id.MustGenerate("user"),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateCredential(ctx, cred); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", errors.AlreadyExists(msgEmailInUse)
		}
		return "", errors.Backend(err.Error())
	}

	if s.logger != nil {
		s.logger.Info("account created", "user_id", cred.ID, "email", email)
	}
	return cred.ID, nil
}

// SignIn validates the credentials and mints an access/refresh token pair.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	cred, err := s.store.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, errors.Backend(err.Error())
	}

	ok, err := auth.VerifyPassword(cred.PasswordHash, password)
	if err != nil || !ok {
		return nil, errors.InvalidCredentials(msgInvalidCredentials)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Backend(err.Error())
	}

	now := time.Now()
	session := &domain.Session{
		ID:               id.MustGenerate("sess"),
		UserID:           cred.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		CreatedAt:        now,
		LastUsedAt:       now,
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, errors.Backend(err.Error())
	}

	accessToken, err := s.tokens.GenerateAccessToken(cred.ID, cred.Email, false)
	if err != nil {
		return nil, errors.Backend(err.Error())
	}

	if s.logger != nil {
		s.logger.Info("sign-in", "user_id", cred.ID)
	}
	return &SignInResult{
		UserID:       cred.ID,
		SessionID:    session.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.tokens.AccessTokenDuration()),
	}, nil
}

// SignOut removes the session minted at sign-in. Unknown sessions are
// not an error; sign-out is idempotent.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return errors.Backend(err.Error())
	}
	return nil
}

// Refresh rotates the refresh token and mints a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*SignInResult, error) {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, errors.Backend(err.Error())
	}
	if session.IsExpired() {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, errors.TokenExpired("refresh token expired")
	}

	cred, err := s.store.GetCredential(ctx, session.UserID)
	if err != nil {
		return nil, errors.Backend(err.Error())
	}

	// Rotate: the old session dies with its token.
	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return nil, errors.Backend(err.Error())
	}
	return s.mintSession(ctx, cred)
}

func (s *Service) mintSession(ctx context.Context, cred *domain.Credential) (*SignInResult, error) {
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Backend(err.Error())
	}

	now := time.Now()
	session := &domain.Session{
		ID:               id.MustGenerate("sess"),
		UserID:           cred.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		CreatedAt:        now,
		LastUsedAt:       now,
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, errors.Backend(err.Error())
	}

	accessToken, err := s.tokens.GenerateAccessToken(cred.ID, cred.Email, false)
	if err != nil {
		return nil, errors.Backend(err.Error())
	}

	return &SignInResult{
		UserID:       cred.ID,
		SessionID:    session.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.tokens.AccessTokenDuration()),
	}, nil
}

// SendPasswordReset delivers a reset token for the account, if one exists.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	_, err := s.store.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.Backend(msgNoAccount)
		}
		return errors.Backend(err.Error())
	}

	token, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return errors.Backend(err.Error())
	}

	if err := s.resetSender.SendReset(ctx, email, token); err != nil {
		return errors.Backend(err.Error())
	}
	return nil
}

// Reauthenticate re-validates the account's current password.
func (s *Service) Reauthenticate(ctx context.Context, userID, currentPassword string) error {
	cred, err := s.store.GetCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.Backend(msgNoAccount)
		}
		return errors.Backend(err.Error())
	}

	ok, err := auth.VerifyPassword(cred.PasswordHash, currentPassword)
	if err != nil || !ok {
		return errors.InvalidCredentials(msgInvalidCredentials)
	}
	return nil
}

// UpdatePassword replaces the account's password hash.
func (s *Service) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	cred, err := s.store.GetCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.Backend(msgNoAccount)
		}
		return errors.Backend(err.Error())
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return errors.Backend(err.Error())
	}

	cred.PasswordHash = hash
	cred.UpdatedAt = time.Now()
	if err := s.store.UpdateCredential(ctx, cred); err != nil {
		return errors.Backend(err.Error())
	}

	if s.logger != nil {
		s.logger.Info("password updated", "user_id", userID)
	}
	return nil
}

// DeleteAccount removes the credential and every session for the account.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteAllUserSessions(ctx, userID); err != nil {
		return errors.Backend(err.Error())
	}
	if err := s.store.DeleteCredential(ctx, userID); err != nil {
		return errors.Backend(err.Error())
	}

	if s.logger != nil {
		s.logger.Info("account deleted", "user_id", userID)
	}
	return nil
}

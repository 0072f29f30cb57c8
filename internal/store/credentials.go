package store

import (
	"context"
	"strings"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// normalizeEmail lowercases and trims an email for index lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Credential Operations

// CreateCredential writes a new account credential. Fails with
// ErrAlreadyExists when the email is already registered.
func (s *Store) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	return s.Credentials.Create(ctx, cred.ID, cred)
}

// GetCredential retrieves a credential by account identifier.
func (s *Store) GetCredential(ctx context.Context, id string) (*domain.Credential, error) {
	return s.Credentials.Get(ctx, id)
}

// GetCredentialByEmail retrieves a credential by email, case-insensitively.
func (s *Store) GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return s.Credentials.GetByIndex(ctx, "email", email)
}

// UpdateCredential overwrites a credential record.
func (s *Store) UpdateCredential(ctx context.Context, cred *domain.Credential) error {
	return s.Credentials.Update(ctx, cred.ID, cred)
}

// DeleteCredential removes a credential record. Idempotent.
func (s *Store) DeleteCredential(ctx context.Context, id string) error {
	return s.Credentials.Delete(ctx, id)
}

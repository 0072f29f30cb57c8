package store

import (
	"context"
	"fmt"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
)

// Profile Operations

// CreateProfile writes a profile document under the account identifier.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	if err := s.Profiles.Create(ctx, profile.ID, profile); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("profile created", "user_id", profile.ID, "email", profile.Email)
	}
	return nil
}

// GetProfile retrieves a profile by account identifier.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.Profiles.Get(ctx, userID)
}

// UpdateProfileFields applies a partial update: only named fields change.
// Unknown field names are rejected rather than silently dropped.
func (s *Store) UpdateProfileFields(ctx context.Context, userID string, fields map[string]any) error {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	for name, value := range fields {
		if err := applyProfileField(profile, name, value); err != nil {
			return err
		}
	}

	return s.Profiles.Update(ctx, userID, profile)
}

// DeleteProfile removes a profile document. Idempotent.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	return s.Profiles.Delete(ctx, userID)
}

// applyProfileField sets one named profile field. Field names follow the
// document's JSON shape.
func applyProfileField(profile *domain.UserProfile, name string, value any) error {
	switch name {
	case "userName":
		s, ok := value.(string)
		if !ok {
			return ErrInvalidInput.WithCause(fmt.Errorf("field %s must be a string", name))
		}
		profile.UserName = s
	case "email":
		s, ok := value.(string)
		if !ok {
			return ErrInvalidInput.WithCause(fmt.Errorf("field %s must be a string", name))
		}
		profile.Email = s
	case "photoUrl":
		s, ok := value.(string)
		if !ok {
			return ErrInvalidInput.WithCause(fmt.Errorf("field %s must be a string", name))
		}
		profile.PhotoURL = s
	case "photoBlurHash":
		s, ok := value.(string)
		if !ok {
			return ErrInvalidInput.WithCause(fmt.Errorf("field %s must be a string", name))
		}
		profile.PhotoBlurHash = s
	case "roles":
		b, ok := value.(bool)
		if !ok {
			return ErrInvalidInput.WithCause(fmt.Errorf("field %s must be a bool", name))
		}
		profile.Roles = b
	default:
		return ErrInvalidInput.WithCause(fmt.Errorf("unknown profile field %q", name))
	}
	return nil
}

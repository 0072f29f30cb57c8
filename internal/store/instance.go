package store

import (
	"context"
	"errors"
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/id"
)

// instanceKey is the fixed key of the singleton record.
const instanceKey = "instance"

// GetInstance retrieves the server instance record.
func (s *Store) GetInstance(ctx context.Context) (*domain.Instance, error) {
	return s.Instances.Get(ctx, instanceKey)
}

// EnsureInstance loads the instance record, creating it on first start.
// Name, URLs and version come from configuration and are refreshed on
// every start so config changes take effect without touching the ID.
func (s *Store) EnsureInstance(ctx context.Context, desired domain.Instance) (*domain.Instance, error) {
	existing, err := s.Instances.Get(ctx, instanceKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		instanceID, err := id.Generate("srv")
		if err != nil {
			return nil, err
		}

		now := time.Now()
		created := desired
		created.ID = instanceID
		created.CreatedAt = now
		created.UpdatedAt = now
		if err := s.Instances.Create(ctx, instanceKey, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	if existing.Name == desired.Name &&
		existing.Version == desired.Version &&
		existing.LocalURL == desired.LocalURL &&
		existing.RemoteURL == desired.RemoteURL {
		return existing, nil
	}

	existing.Name = desired.Name
	existing.Version = desired.Version
	existing.LocalURL = desired.LocalURL
	existing.RemoteURL = desired.RemoteURL
	existing.UpdatedAt = time.Now()
	if err := s.Instances.Update(ctx, instanceKey, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

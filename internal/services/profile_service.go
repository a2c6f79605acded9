package services

import (
	"context"
	"errors"

	"kassan/internal/core"
	"kassan/internal/storage"
)

// ProfileService keeps the local profile row in step with the identity the
// reverse proxy asserts on each request.
type ProfileService struct {
	store storage.Store
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Ensure creates the profile on first sight and refreshes the email when the
// identity provider reports a new one. Other attributes are left untouched.
func (s *ProfileService) Ensure(ctx context.Context, id, email string) (core.Profile, error) {
	if id == "" {
		return core.Profile{}, core.Invalid("profile_id", "missing")
	}
	if email == "" {
		return core.Profile{}, core.Invalid("email", "missing")
	}

	existing, err := s.store.ProfileByID(ctx, id)
	switch {
	case err == nil:
		if existing.Email == email {
			return existing, nil
		}
		existing.Email = email
		return s.store.UpsertProfile(ctx, existing)
	case errors.Is(err, core.ErrNotFound):
		return s.store.UpsertProfile(ctx, core.Profile{ID: id, Email: email})
	default:
		return core.Profile{}, err
	}
}

// Update stores the caller's own mutable attributes.
func (s *ProfileService) Update(ctx context.Context, p core.Profile) (core.Profile, error) {
	if p.ID == "" {
		return core.Profile{}, core.Invalid("profile_id", "missing")
	}
	existing, err := s.store.ProfileByID(ctx, p.ID)
	if err != nil {
		return core.Profile{}, err
	}
	existing.FullName = p.FullName
	existing.AvatarURL = p.AvatarURL
	existing.Locale = p.Locale
	existing.Timezone = p.Timezone
	return s.store.UpsertProfile(ctx, existing)
}

func (s *ProfileService) Get(ctx context.Context, id string) (core.Profile, error) {
	return s.store.ProfileByID(ctx, id)
}

package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/models"
	"github.com/ntarasova/moodlog/internal/remote"
)

// FetchProfile returns the user's profile. The remote copy always wins: a
// successful fetch overwrites the local cache wholesale. When the remote
// store cannot be reached the cached copy is served instead.
func (s *Syncer) FetchProfile(ctx context.Context) (*models.Profile, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	if s.oracle.Online(ctx) {
		rec, err := s.store.GetProfile(ctx, userID)
		switch {
		case err == nil:
			p := &models.Profile{
				UserID:      userID,
				DisplayName: rec.DisplayName,
				Email:       rec.Email,
				AvatarRef:   rec.AvatarRef,
				FetchedAt:   s.now().UTC(),
			}
			if err := s.profiles.Put(ctx, p); err != nil {
				s.log.Warn(ctx, "profile cache write failed", "error", err)
			}
			return p, nil
		case errors.Is(err, common.ErrNotFound):
			// no remote profile yet; fall through to the cache
		default:
			s.log.Warn(ctx, "profile fetch failed, serving cache", "error", err)
		}
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProfile writes the profile to the remote store and mirrors it into
// the cache. Unlike journal entries there is no offline queue: the remote
// write must succeed first.
func (s *Syncer) SaveProfile(ctx context.Context, p *models.Profile) error {
	userID, ok := s.session.UserID()
	if !ok {
		return common.ErrNotAuthenticated
	}
	p.UserID = userID

	rec := remote.ProfileRecord{
		DisplayName: p.DisplayName,
		Email:       p.Email,
		AvatarRef:   p.AvatarRef,
	}
	if err := s.store.PutProfile(ctx, userID, rec); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	p.FetchedAt = s.now().UTC()
	if err := s.profiles.Put(ctx, p); err != nil {
		s.log.Warn(ctx, "profile cache write failed", "error", err)
	}
	return nil
}

// Package journal is the application service the UI layer talks to. Every
// mutation goes to the local store first and then requests a sync cycle, so
// the app stays fully usable offline and reconciles when it can.
package journal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ntarasova/moodlog/internal/blob"
	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/logging"
	"github.com/ntarasova/moodlog/internal/models"
	"github.com/ntarasova/moodlog/internal/repositories/entries"
	"github.com/ntarasova/moodlog/internal/session"
	"github.com/ntarasova/moodlog/internal/sync"
)

// ImageStore uploads attachments and returns the object key to carry in the
// entry payload. *blob.Store satisfies it; it is optional wiring.
type ImageStore interface {
	UploadImage(ctx context.Context, prefix, userID string, body io.Reader) (string, error)
}

// Service implements the journal use cases over the local store, triggering
// background reconciliation after each mutation.
type Service struct {
	entries entries.Repository
	session session.Session
	syncer  *sync.Syncer
	trigger *sync.Trigger
	images  ImageStore
	log     logging.Logger
	now     func() time.Time
}

// New wires a Service. images and log may be nil; without an image store
// attachment uploads are rejected.
func New(
	entryRepo entries.Repository,
	sess session.Session,
	syncer *sync.Syncer,
	trigger *sync.Trigger,
	images ImageStore,
	log logging.Logger,
) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		entries: entryRepo,
		session: sess,
		syncer:  syncer,
		trigger: trigger,
		images:  images,
		log:     log,
		now:     time.Now,
	}
}

// AddParams carries the user input for a new journal entry. A zero
// OccurredAt means "now". Image is optional.
type AddParams struct {
	OccurredAt time.Time
	Mood       models.Mood
	Note       string
	Image      io.Reader
}

func validMood(m models.Mood) bool {
	return m >= models.MoodAwful && m <= models.MoodRad
}

// Add records a new entry locally and requests a sync cycle. The entry gets
// its sync id here, at creation, so any device can correlate it later.
func (s *Service) Add(ctx context.Context, p AddParams) (*models.Entry, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}
	if !validMood(p.Mood) {
		return nil, fmt.Errorf("%w: mood %d outside scale", common.ErrInvalidInput, p.Mood)
	}

	now := s.now().UTC()
	if p.OccurredAt.IsZero() {
		p.OccurredAt = now
	}

	e := &models.Entry{
		SyncID:     uuid.NewString(),
		UserID:     userID,
		OccurredAt: p.OccurredAt.UTC(),
		Mood:       p.Mood,
		Note:       p.Note,
	}

	if p.Image != nil {
		if s.images == nil {
			return nil, fmt.Errorf("%w: no image store configured", common.ErrInvalidInput)
		}
		key, err := s.images.UploadImage(ctx, blob.JournalImagePrefix, userID, p.Image)
		if err != nil {
			return nil, fmt.Errorf("upload entry image: %w", err)
		}
		e.ImageRef = key
	}

	e.Touch(now)
	if err := s.entries.Upsert(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "entry added", "sync_id", e.SyncID, "mood", e.Mood.String())
	s.trigger.Request(ctx)
	return e, nil
}

// UpdateParams carries an edit. Nil fields keep the stored value.
type UpdateParams struct {
	Mood  *models.Mood
	Note  *string
	Image io.Reader
}

// Update edits an existing entry by sync id.
func (s *Service) Update(ctx context.Context, syncID string, p UpdateParams) (*models.Entry, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	e, err := s.entries.GetBySyncID(ctx, syncID)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID || e.Tombstoned {
		return nil, common.ErrNotFound
	}

	if p.Mood != nil {
		if !validMood(*p.Mood) {
			return nil, fmt.Errorf("%w: mood %d outside scale", common.ErrInvalidInput, *p.Mood)
		}
		e.Mood = *p.Mood
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.Image != nil {
		if s.images == nil {
			return nil, fmt.Errorf("%w: no image store configured", common.ErrInvalidInput)
		}
		key, err := s.images.UploadImage(ctx, blob.JournalImagePrefix, userID, p.Image)
		if err != nil {
			return nil, fmt.Errorf("upload entry image: %w", err)
		}
		e.ImageRef = key
	}

	e.Touch(s.now())
	if err := s.entries.Upsert(ctx, e); err != nil {
		return nil, err
	}

	s.trigger.Request(ctx)
	return e, nil
}

// List returns the user's visible entries, newest first.
func (s *Service) List(ctx context.Context) ([]models.Entry, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}
	return s.entries.ListActive(ctx, userID)
}

// Delete tombstones the entry; the reconciler propagates the deletion and
// hard-deletes the row once that is confirmed.
func (s *Service) Delete(ctx context.Context, syncID string) error {
	userID, ok := s.session.UserID()
	if !ok {
		return common.ErrNotAuthenticated
	}

	e, err := s.entries.GetBySyncID(ctx, syncID)
	if err != nil {
		return err
	}
	if e.UserID != userID || e.Tombstoned {
		return common.ErrNotFound
	}

	if err := s.entries.SoftDelete(ctx, e); err != nil {
		return err
	}

	s.log.Info(ctx, "entry deleted", "sync_id", syncID)
	s.trigger.Request(ctx)
	return nil
}

// Profile returns the user's profile, remote copy first, cache as fallback.
func (s *Service) Profile(ctx context.Context) (*models.Profile, error) {
	return s.syncer.FetchProfile(ctx)
}

// SetProfile updates the profile. The avatar reader is optional; when given
// it is uploaded first and the resulting key replaces the stored reference.
func (s *Service) SetProfile(ctx context.Context, displayName, email string, avatar io.Reader) (*models.Profile, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	p := &models.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
	}
	if prev, err := s.syncer.FetchProfile(ctx); err == nil {
		p.AvatarRef = prev.AvatarRef
		if displayName == "" {
			p.DisplayName = prev.DisplayName
		}
		if email == "" {
			p.Email = prev.Email
		}
	}

	if avatar != nil {
		if s.images == nil {
			return nil, fmt.Errorf("%w: no image store configured", common.ErrInvalidInput)
		}
		key, err := s.images.UploadImage(ctx, blob.ProfileImagePrefix, userID, avatar)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		p.AvatarRef = key
	}

	if err := s.syncer.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

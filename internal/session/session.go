// Package session supplies the current user identity and bearer token to the
// reconciler and to the remote store adapter. The session is passed into
// every consumer explicitly; there is no ambient "current user" global.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ntarasova/moodlog/internal/common"
	"github.com/ntarasova/moodlog/internal/repositories/metadata"
)

// Session is the identity contract consumed by the reconciler and adapters.
// UserID reports false when no user is signed in; Token returns
// common.ErrNotAuthenticated in that case and common.ErrTokenExpired when
// the stored token has passed its expiry claim.
type Session interface {
	UserID() (string, bool)
	Token(ctx context.Context) (string, error)
}

// Static is a fixed session, used in tests and for ad-hoc wiring.
type Static struct {
	User   string
	Bearer string
}

func (s Static) UserID() (string, bool) { return s.User, s.User != "" }

func (s Static) Token(ctx context.Context) (string, error) {
	if s.User == "" {
		return "", common.ErrNotAuthenticated
	}
	return s.Bearer, nil
}

// Claims mirrors the registered claims plus the user id claim issued by the
// auth backend.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

const (
	keyAuthToken = "auth_token"
	keyUserID    = "user_id"
)

// Manager is a Session persisted in the local metadata table so the identity
// survives restarts, mirroring the stored-session restore flow of the app.
type Manager struct {
	meta metadata.Repository
	now  func() time.Time

	mu     sync.RWMutex
	userID string
	token  string
	expiry time.Time
}

func NewManager(meta metadata.Repository) *Manager {
	return &Manager{meta: meta, now: time.Now}
}

// Restore loads a previously stored session, if any. A missing session is
// not an error; the manager just stays signed out.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.meta.Get(ctx, keyAuthToken)
	if err != nil {
		return err
	}
	userID, err := m.meta.Get(ctx, keyUserID)
	if err != nil {
		return err
	}
	if token == "" || userID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.userID = userID
	m.expiry = tokenExpiry(token)
	return nil
}

// SignIn stores the bearer token, resolving the user id from its claims, and
// persists both for the next run.
func (m *Manager) SignIn(ctx context.Context, token string) error {
	claims := &Claims{}
	// The token is issued and verified by the auth backend; the client only
	// reads the claims, so no signature check happens here.
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("parse token: %w", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return fmt.Errorf("parse token: %w: no user id claim", common.ErrNotAuthenticated)
	}

	if err := m.meta.Set(ctx, keyAuthToken, token); err != nil {
		return err
	}
	if err := m.meta.Set(ctx, keyUserID, userID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.userID = userID
	m.expiry = expiryFromClaims(claims)
	return nil
}

// SignOut clears the in-memory and persisted session.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.meta.Delete(ctx, keyAuthToken); err != nil {
		return err
	}
	if err := m.meta.Delete(ctx, keyUserID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.userID = ""
	m.expiry = time.Time{}
	return nil
}

func (m *Manager) UserID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID, m.userID != ""
}

func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", common.ErrNotAuthenticated
	}
	if !m.expiry.IsZero() && m.now().After(m.expiry) {
		return "", common.ErrTokenExpired
	}
	return m.token, nil
}

func tokenExpiry(token string) time.Time {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	return expiryFromClaims(claims)
}

func expiryFromClaims(claims *Claims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

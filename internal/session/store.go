// Package session holds the authenticated identity and token pair. The
// store is the single owner of token state: the dispatcher reads from it on
// every request and replaces tokens after a refresh.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/pkg/kv"
)

const storageKey = "session"

// Session is the persisted authentication state. AccessToken is empty if
// and only if no session is active.
type Session struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *models.StudentUser `json:"user"`
}

// Active reports whether an authenticated session is held.
func (s Session) Active() bool {
	return s.AccessToken != ""
}

// Store owns session state, persists it through the kv backend and
// notifies subscribers on every change.
type Store struct {
	kv     kv.Store
	logger *zap.Logger

	mu      sync.RWMutex
	session Session
	subs    []func(Session)
}

// NewStore rehydrates any persisted session and returns the store.
func NewStore(ctx context.Context, backend kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: backend, logger: logger}

	if backend != nil {
		data, err := backend.Get(ctx, storageKey)
		switch {
		case err == nil:
			var sess Session
			if err := json.Unmarshal(data, &sess); err != nil {
				logger.Warn("discarding corrupt persisted session", zap.Error(err))
			} else {
				s.session = sess
			}
		case errors.Is(err, kv.ErrNotFound):
		default:
			logger.Warn("failed to rehydrate session", zap.Error(err))
		}
	}

	return s
}

// Current returns a snapshot of the session state.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// AccessToken returns the current access token, empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the current refresh token, empty when logged out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}

// SetSession replaces the session after login or register.
func (s *Store) SetSession(ctx context.Context, auth models.AuthSession) error {
	user := auth.User
	return s.replace(ctx, Session{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		User:         &user,
	})
}

// UpdateTokens replaces the access token; the refresh token is replaced
// only when the backend supplied a new one.
func (s *Store) UpdateTokens(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.RLock()
	next := s.session
	s.mu.RUnlock()

	next.AccessToken = accessToken
	if refreshToken != "" {
		next.RefreshToken = refreshToken
	}
	return s.replace(ctx, next)
}

// UpdateUser patches user fields on the active session. A patch without an
// active session is a no-op, matching logged-out screens.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	s.mu.RLock()
	next := s.session
	s.mu.RUnlock()

	if next.User == nil {
		return nil
	}

	user := *next.User
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.ProfileCompletion != nil {
		user.ProfileCompletion = *patch.ProfileCompletion
	}
	next.User = &user
	return s.replace(ctx, next)
}

// Clear destroys the session; protected screens treat the resulting empty
// access token as a redirect to login.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.session = Session{}
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Session{})
	}

	if s.kv == nil {
		return nil
	}
	return s.kv.Delete(ctx, storageKey)
}

// Subscribe registers a callback invoked with a snapshot after every
// session change.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) replace(ctx context.Context, next Session) error {
	s.mu.Lock()
	s.session = next
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}

	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, storageKey, data)
}

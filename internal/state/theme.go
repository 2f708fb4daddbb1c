package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/boarding-dev/placement-client/pkg/kv"
)

// ThemeMode is the persisted appearance preference.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

const themeKey = "theme"

type persistedTheme struct {
	Mode ThemeMode `json:"mode"`
}

// ThemeStore holds the theme preference, persisted in its own namespace.
type ThemeStore struct {
	kv kv.Store

	mu   sync.Mutex
	mode ThemeMode
}

// NewThemeStore rehydrates the persisted preference, defaulting to light.
func NewThemeStore(ctx context.Context, backend kv.Store) *ThemeStore {
	s := &ThemeStore{kv: backend, mode: ThemeLight}

	if backend != nil {
		// storage trouble falls back to the default
		if data, err := backend.Get(ctx, themeKey); err == nil {
			var p persistedTheme
			if json.Unmarshal(data, &p) == nil && (p.Mode == ThemeLight || p.Mode == ThemeDark) {
				s.mode = p.Mode
			}
		}
	}

	return s
}

// Mode returns the current theme mode.
func (s *ThemeStore) Mode() ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode replaces the theme mode and persists it.
func (s *ThemeStore) SetMode(ctx context.Context, mode ThemeMode) error {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return s.persist(ctx, mode)
}

// Toggle flips between light and dark.
func (s *ThemeStore) Toggle(ctx context.Context) (ThemeMode, error) {
	s.mu.Lock()
	if s.mode == ThemeDark {
		s.mode = ThemeLight
	} else {
		s.mode = ThemeDark
	}
	mode := s.mode
	s.mu.Unlock()
	return mode, s.persist(ctx, mode)
}

func (s *ThemeStore) persist(ctx context.Context, mode ThemeMode) error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(persistedTheme{Mode: mode})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, themeKey, data)
}

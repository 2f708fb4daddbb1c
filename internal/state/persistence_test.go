package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boarding-dev/placement-client/pkg/kv"
)

func newBackend(t *testing.T) (kv.Store, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	return backend, dir
}

func TestThemeStoreDefaultsAndToggle(t *testing.T) {
	ctx := context.Background()
	backend, dir := newBackend(t)

	store := NewThemeStore(ctx, backend)
	assert.Equal(t, ThemeLight, store.Mode())

	mode, err := store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, mode)

	// a new store over the same backend rehydrates the choice
	reopened, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, NewThemeStore(ctx, reopened).Mode())
}

func TestThemeStoreIgnoresCorruptPersistedValue(t *testing.T) {
	ctx := context.Background()
	backend, _ := newBackend(t)
	require.NoError(t, backend.Set(ctx, "theme", []byte(`{"mode":"sepia"}`)))

	store := NewThemeStore(ctx, backend)
	assert.Equal(t, ThemeLight, store.Mode())
}

func TestOnboardingStoreDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	backend, dir := newBackend(t)

	store := NewOnboardingStore(ctx, backend)
	store.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, store.SetStep(ctx, 2))
	require.NoError(t, store.MergeFields(ctx, map[string]string{"country": "Germany"}))
	require.NoError(t, store.MergeFields(ctx, map[string]string{"industry": "Hospitality"}))

	draft := store.Draft()
	assert.Equal(t, 2, draft.CurrentStep)
	assert.Equal(t, map[string]string{"country": "Germany", "industry": "Hospitality"}, draft.Fields)
	assert.Equal(t, "2026-03-15T10:00:00Z", draft.UpdatedAt)

	// resuming in a fresh store picks the draft up
	reopened, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	resumed := NewOnboardingStore(ctx, reopened)
	assert.Equal(t, draft, resumed.Draft())

	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, OnboardingDraft{Fields: map[string]string{}}, store.Draft())

	// the persisted draft is gone too
	fresh := NewOnboardingStore(ctx, reopened)
	assert.Empty(t, fresh.Draft().Fields)
	assert.Zero(t, fresh.Draft().CurrentStep)
}

func TestOnboardingStoreSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	store := NewOnboardingStore(ctx, nil)

	require.NoError(t, store.MergeFields(ctx, map[string]string{"country": "Germany"}))
	draft := store.Draft()
	draft.Fields["country"] = "France"

	assert.Equal(t, "Germany", store.Draft().Fields["country"])
}

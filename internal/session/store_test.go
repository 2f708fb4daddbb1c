package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/pkg/kv"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newFileBacked(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	return NewStore(context.Background(), backend, zap.NewNop()), dir
}

func demoSession() models.AuthSession {
	return models.AuthSession{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: models.StudentUser{
			ID:        "student-001",
			FirstName: "Demo",
			LastName:  "Student",
			Email:     "student@boarding.dev",
		},
	}
}

func TestStoreSetAndRehydrate(t *testing.T) {
	ctx := context.Background()
	store, dir := newFileBacked(t)

	require.NoError(t, store.SetSession(ctx, demoSession()))
	assert.True(t, store.Current().Active())
	assert.Equal(t, "access-1", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken())

	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	rehydrated := NewStore(ctx, backend, zap.NewNop())
	assert.Equal(t, store.Current(), rehydrated.Current())
	require.NotNil(t, rehydrated.Current().User)
	assert.Equal(t, "student-001", rehydrated.Current().User.ID)
}

func TestUpdateTokensKeepsRefreshWhenEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileBacked(t)
	require.NoError(t, store.SetSession(ctx, demoSession()))

	require.NoError(t, store.UpdateTokens(ctx, "access-2", ""))
	assert.Equal(t, "access-2", store.AccessToken())
	assert.Equal(t, "refresh-1", store.RefreshToken(), "empty refresh token keeps the old one")

	require.NoError(t, store.UpdateTokens(ctx, "access-3", "refresh-3"))
	assert.Equal(t, "refresh-3", store.RefreshToken())
}

func TestUpdateUserPatchesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileBacked(t)
	require.NoError(t, store.SetSession(ctx, demoSession()))

	require.NoError(t, store.UpdateUser(ctx, models.UserPatch{
		FirstName:         strPtr("Updated"),
		ProfileCompletion: intPtr(90),
	}))

	user := store.Current().User
	require.NotNil(t, user)
	assert.Equal(t, "Updated", user.FirstName)
	assert.Equal(t, "Student", user.LastName)
	assert.Equal(t, 90, user.ProfileCompletion)
}

func TestUpdateUserWithoutSessionIsNoop(t *testing.T) {
	store, _ := newFileBacked(t)
	require.NoError(t, store.UpdateUser(context.Background(), models.UserPatch{FirstName: strPtr("Ghost")}))
	assert.Nil(t, store.Current().User)
}

func TestClearRemovesPersistedSession(t *testing.T) {
	ctx := context.Background()
	store, dir := newFileBacked(t)
	require.NoError(t, store.SetSession(ctx, demoSession()))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, store.Current().Active())
	assert.Empty(t, store.AccessToken())

	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	assert.False(t, NewStore(ctx, backend, zap.NewNop()).Current().Active())
}

func TestSubscribersObserveEveryChange(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileBacked(t)

	var snapshots []Session
	store.Subscribe(func(s Session) { snapshots = append(snapshots, s) })

	require.NoError(t, store.SetSession(ctx, demoSession()))
	require.NoError(t, store.UpdateTokens(ctx, "access-2", ""))
	require.NoError(t, store.Clear(ctx))

	require.Len(t, snapshots, 3)
	assert.Equal(t, "access-1", snapshots[0].AccessToken)
	assert.Equal(t, "access-2", snapshots[1].AccessToken)
	assert.False(t, snapshots[2].Active())
}

func TestNewStoreDiscardsCorruptPayload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, "session", []byte("{not json")))

	store := NewStore(ctx, backend, zap.NewNop())
	assert.False(t, store.Current().Active())
}

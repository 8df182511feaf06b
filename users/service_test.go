package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/store"
)

// writeCountingStore counts identity updates.
type writeCountingStore struct {
	store.Store
	updates int
}

func (w *writeCountingStore) UpdateIdentity(ctx context.Context, id int64, changes store.IdentityChanges) (*store.Identity, error) {
	w.updates++
	return w.Store.UpdateIdentity(ctx, id, changes)
}

func ptr(s string) *string { return &s }

func seed(t *testing.T, st store.Store, username, email string) *store.Identity {
	t.Helper()
	identity, err := st.CreateIdentity(context.Background(), &store.Identity{
		Username: username, Email: email, PasswordDigest: "digest",
	})
	require.NoError(t, err)
	return identity
}

func TestUpdateIdentity_NoChanges(t *testing.T) {
	st := &writeCountingStore{Store: store.NewMemoryStore()}
	ana := seed(t, st, "ana", "ana@x.com")
	svc := NewService(st)

	_, err := svc.UpdateIdentity(context.Background(), ana, Update{
		Username: ptr("ana"),
		Email:    ptr("ana@x.com"),
	})
	require.Error(t, err)
	assert.Equal(t, "NoChangesDetected", apperror.FromError(err).Name())
	assert.Zero(t, st.updates)
}

func TestUpdateIdentity_EmailOnly(t *testing.T) {
	st := store.NewMemoryStore()
	ana := seed(t, st, "ana", "ana@x.com")
	svc := NewService(st)

	resp, err := svc.UpdateIdentity(context.Background(), ana, Update{
		Username:     ptr("ana"),
		Email:        ptr("ana@y.com"),
		EmailChanged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: ana.ID, Username: "ana", Email: "ana@y.com"}, resp.User)
	assert.Equal(t, []string{"email changed from ana@x.com to ana@y.com"}, resp.Changes)
}

func TestUpdateIdentity_PasswordReportedWithoutValue(t *testing.T) {
	st := store.NewMemoryStore()
	ana := seed(t, st, "ana", "ana@x.com")
	svc := NewService(st)

	resp, err := svc.UpdateIdentity(context.Background(), ana, Update{
		PasswordDigest:  "new-digest",
		PasswordChanged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"password updated"}, resp.Changes)

	stored, err := st.FindIdentityByID(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-digest", stored.PasswordDigest)
}

func TestUpdateIdentity_Conflict(t *testing.T) {
	st := store.NewMemoryStore()
	ana := seed(t, st, "ana", "ana@x.com")
	seed(t, st, "bea", "bea@x.com")
	svc := NewService(st)

	_, err := svc.UpdateIdentity(context.Background(), ana, Update{
		Username:        ptr("bea"),
		UsernameChanged: true,
	})
	require.Error(t, err)
	appErr := apperror.FromError(err)
	assert.Equal(t, apperror.ConflictError, appErr.Type)
	assert.Equal(t, "username", appErr.Field)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "User with username ghost not found", apperror.FromError(err).Message)
}

func TestList_PrefixAndEmpty(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st)

	empty, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	seed(t, st, "ana", "ana@x.com")
	seed(t, st, "anabel", "anabel@x.com")
	seed(t, st, "bea", "bea@x.com")

	got, err := svc.List(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ana", got[0].Username)
	assert.Equal(t, "anabel", got[1].Username)
}

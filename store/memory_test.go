package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentity(username, email string) *Identity {
	return &Identity{Username: username, Email: email, PasswordDigest: "digest"}
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := s.FindIdentityByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)

	byName, err := s.FindIdentityByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := s.FindIdentityByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = s.FindIdentityByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)

	_, err = s.CreateIdentity(ctx, newIdentity("ana", "other@x.com"))
	var uv *UniqueViolationError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "username", uv.Field)

	_, err = s.CreateIdentity(ctx, newIdentity("other", "ana@x.com"))
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "email", uv.Field)

	bob, err := s.CreateIdentity(ctx, newIdentity("bob", "bob@x.com"))
	require.NoError(t, err)

	taken := "ana@x.com"
	_, err = s.UpdateIdentity(ctx, bob.ID, IdentityChanges{Email: &taken})
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "email", uv.Field)

	// Writing an identity's own current value is not a collision.
	own := "bob"
	_, err = s.UpdateIdentity(ctx, bob.ID, IdentityChanges{Username: &own})
	assert.NoError(t, err)
}

func TestMemoryStore_UpdateAppliesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)

	email := "ana@y.com"
	updated, err := s.UpdateIdentity(ctx, created.ID, IdentityChanges{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "ana", updated.Username)
	assert.Equal(t, "ana@y.com", updated.Email)
	assert.Equal(t, "digest", updated.PasswordDigest)

	_, err = s.UpdateIdentity(ctx, 999, IdentityChanges{Email: &email})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListIdentitiesByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, name := range []string{"anna", "bob", "andre"} {
		_, err := s.CreateIdentity(ctx, newIdentity(name, name+"@x.com"))
		require.NoError(t, err)
	}

	all, err := s.ListIdentities(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "anna", all[0].Username)

	an, err := s.ListIdentities(ctx, "an")
	require.NoError(t, err)
	require.Len(t, an, 2)
	assert.Equal(t, []string{"anna", "andre"}, []string{an[0].Username, an[1].Username})
}

func TestMemoryStore_Library(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultCatalog...)
	ana, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)

	dune, err := s.FindBookByTitle(ctx, "Dune")
	require.NoError(t, err)

	require.NoError(t, s.AddToLibrary(ctx, ana.ID, dune.ID))
	require.NoError(t, s.AddToLibrary(ctx, ana.ID, dune.ID), "adding twice is idempotent")

	books, err := s.LibraryBooks(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	require.NoError(t, s.RemoveFromLibrary(ctx, ana.ID, dune.ID))
	assert.ErrorIs(t, s.RemoveFromLibrary(ctx, ana.ID, dune.ID), ErrNotFound)

	assert.ErrorIs(t, s.AddToLibrary(ctx, ana.ID, 9999), ErrNotFound)
	_, err = s.FindBookByTitle(ctx, "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteDropsLibrary(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultCatalog...)
	ana, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)
	require.NoError(t, s.AddToLibrary(ctx, ana.ID, 1))

	require.NoError(t, s.DeleteIdentity(ctx, ana.ID))
	assert.ErrorIs(t, s.DeleteIdentity(ctx, ana.ID), ErrNotFound)

	books, err := s.LibraryBooks(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestMemoryStore_ConcurrentCreatesKeepUsernamesUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateIdentity(ctx, &Identity{
				Username: "same",
				Email:    "u" + string(rune('a'+i)) + "@x.com",
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

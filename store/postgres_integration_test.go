//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/bookshelf-go/db"
	"github.com/user/bookshelf-go/logging"
)

// setupPostgres starts a PostgreSQL container, migrates it and returns a
// store on top. Skipped when no container runtime is reachable.
func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("bookshelf_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(dsn, logging.Discard()))

	pool, err := db.NewPoolFromDSN(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPostgresStore(db.OpenSQL(pool))
}

func TestPostgresIntegration_IdentityLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	ana, err := s.CreateIdentity(ctx, newIdentity("ana", "ana@x.com"))
	require.NoError(t, err)
	assert.NotZero(t, ana.ID)

	_, err = s.CreateIdentity(ctx, newIdentity("ana", "other@x.com"))
	var uv *UniqueViolationError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "username", uv.Field)

	_, err = s.CreateIdentity(ctx, newIdentity("bob", "ana@x.com"))
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "email", uv.Field)

	email := "ana@y.com"
	updated, err := s.UpdateIdentity(ctx, ana.ID, IdentityChanges{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "ana@y.com", updated.Email)
	assert.False(t, updated.UpdatedAt.Before(ana.UpdatedAt))

	dune, err := s.FindBookByTitle(ctx, "Dune")
	require.NoError(t, err)
	require.NoError(t, s.AddToLibrary(ctx, ana.ID, dune.ID))
	require.NoError(t, s.AddToLibrary(ctx, ana.ID, dune.ID))

	books, err := s.LibraryBooks(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, s.DeleteIdentity(ctx, ana.ID))
	_, err = s.FindIdentityByID(ctx, ana.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	books, err = s.LibraryBooks(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, books, "library rows cascade with the identity")
}

package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/logging"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/store"
)

type fixture struct {
	router chi.Router
	store  *writeCountingStore
	auth   *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	st := &writeCountingStore{Store: store.NewMemoryStore(store.DefaultCatalog...)}
	authService := auth.NewService(st, hasher, tokens)
	exec := pipeline.NewExecutor(logging.Discard(), false)

	r := chi.NewRouter()
	NewHandlers(NewService(st), authService, exec).RegisterRoutes(r)
	return &fixture{router: r, store: st, auth: authService}
}

// register creates an identity with a real digest and returns it with a token.
func (f *fixture) register(t *testing.T, username, email, password string) (*store.Identity, string) {
	t.Helper()
	digest, err := f.auth.Hasher().Hash(password)
	require.NoError(t, err)
	identity, err := f.store.CreateIdentity(context.Background(), &store.Identity{
		Username: username, Email: email, PasswordDigest: digest,
	})
	require.NoError(t, err)
	token, err := f.auth.Tokens().Issue(identity.ID)
	require.NoError(t, err)
	return identity, token
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListAndGet(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	ana, _ := f.register(t, "ana", "ana@x.com", "secret123")
	f.register(t, "bea", "bea@x.com", "secret123")

	rec = f.do(t, http.MethodGet, "/users?prefix=a", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	if diff := cmp.Diff([]Profile{{ID: ana.ID, Username: "ana", Email: "ana@x.com"}}, listed); diff != "" {
		t.Errorf("listed users mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, rec.Body.String(), "digest")

	rec = f.do(t, http.MethodGet, "/users/ana", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"username":"ana","email":"ana@x.com"}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/users/ghost", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountAndBooks(t *testing.T) {
	f := newFixture(t)
	ana, _ := f.register(t, "ana", "ana@x.com", "secret123")
	require.NoError(t, f.store.AddToLibrary(context.Background(), ana.ID, 1))

	rec := f.do(t, http.MethodGet, "/users/ana/account", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, 1, account.LibrarySize)
	assert.False(t, account.CreatedAt.IsZero())

	rec = f.do(t, http.MethodGet, "/users/ana/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var books []store.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, store.DefaultCatalog[0].Title, books[0].Title)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/users/ghost/books", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/users/ghost/account", nil, "").Code)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	_, token := f.register(t, "ana", "ana@x.com", "secret123")

	t.Run("identical body is NoChangesDetected", func(t *testing.T) {
		f.store.updates = 0
		rec := f.do(t, http.MethodPut, "/users/ana", map[string]string{
			"username": "ana", "email": "ana@x.com", "password": "secret123",
		}, token)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body apperror.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NoChangesDetected", body.Error.Name)
		assert.Zero(t, f.store.updates)
	})

	t.Run("email only", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/users/ana", map[string]string{
			"username": "ana", "email": "ANA@y.com",
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp UpdateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ana@y.com", resp.User.Email)
		assert.Equal(t, []string{"email changed from ana@x.com to ana@y.com"}, resp.Changes)
	})

	t.Run("password change is rehashed", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/users/ana", map[string]string{"password": "brand-new-pass"}, token)
		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := f.store.FindIdentityByUsername(context.Background(), "ana")
		require.NoError(t, err)
		matched, err := f.auth.Hasher().Compare("brand-new-pass", stored.PasswordDigest)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("invalid username rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/users/ana", map[string]string{"username": "x"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("token for another user", func(t *testing.T) {
		f.register(t, "bea", "bea@x.com", "secret123")
		rec := f.do(t, http.MethodPut, "/users/bea", map[string]string{"email": "hijack@x.com"}, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/users/ana", map[string]string{"email": "z@x.com"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	_, token := f.register(t, "ana", "ana@x.com", "secret123")

	rec := f.do(t, http.MethodDelete, "/users/ana", map[string]string{"password": "wrong-password"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/users/ana", map[string]string{"password": "secret123"}, token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	_, err := f.store.FindIdentityByUsername(context.Background(), "ana")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = f.do(t, http.MethodDelete, "/users/ana", map[string]string{"password": "secret123"}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "token of a deleted user no longer resolves")
}

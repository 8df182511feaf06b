package auth

import (
	"context"
	"errors"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/store"
)

// Service holds what the authentication steps need: the store, the password
// hasher and the token issuer. It carries no per-request state.
type Service struct {
	store  store.Store
	hasher *Hasher
	tokens *TokenIssuer
}

// NewService creates a new Service.
func NewService(st store.Store, hasher *Hasher, tokens *TokenIssuer) *Service {
	return &Service{store: st, hasher: hasher, tokens: tokens}
}

// Hasher returns the service's password hasher.
func (s *Service) Hasher() *Hasher {
	return s.hasher
}

// Tokens returns the service's token issuer.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// CreateIdentity persists a new identity, translating uniqueness violations
// into a ConflictError naming the field.
func (s *Service) CreateIdentity(ctx context.Context, username, email, digest string) (*store.Identity, error) {
	created, err := s.store.CreateIdentity(ctx, &store.Identity{
		Username:       username,
		Email:          email,
		PasswordDigest: digest,
	})
	if err != nil {
		return nil, TranslateStoreError(err, "failed to create user")
	}
	return created, nil
}

// TranslateStoreError maps store errors onto the application taxonomy.
func TranslateStoreError(err error, message string) error {
	var unique *store.UniqueViolationError
	switch {
	case errors.As(err, &unique):
		return apperror.NewConflictError(unique.Field, err)
	case errors.Is(err, store.ErrNotFound):
		return apperror.NewNotFoundError("user not found", err)
	default:
		return apperror.NewDatabaseError(message, err)
	}
}

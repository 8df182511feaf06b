// Package users serves identity lookups and the authenticated update and
// delete routes.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/store"
)

// Service provides identity lookups and the update-by-identity operation.
type Service struct {
	store store.Store
}

// NewService creates a new Service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// List returns every identity whose username starts with prefix, ordered by id.
func (s *Service) List(ctx context.Context, prefix string) ([]Profile, error) {
	identities, err := s.store.ListIdentities(ctx, prefix)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	profiles := make([]Profile, 0, len(identities))
	for i := range identities {
		profiles = append(profiles, toProfile(&identities[i]))
	}
	return profiles, nil
}

// Get returns the identity with the given username.
func (s *Service) Get(ctx context.Context, username string) (*store.Identity, error) {
	identity, err := s.store.FindIdentityByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("User with username %s not found", username), err)
		}
		return nil, apperror.NewDatabaseError("failed to fetch user", err)
	}
	return identity, nil
}

// Account returns the account view for username.
func (s *Service) Account(ctx context.Context, username string) (*AccountResponse, error) {
	identity, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	books, err := s.store.LibraryBooks(ctx, identity.ID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch library", err)
	}
	return &AccountResponse{
		Profile:     toProfile(identity),
		CreatedAt:   identity.CreatedAt,
		UpdatedAt:   identity.UpdatedAt,
		LibrarySize: len(books),
	}, nil
}

// Books returns the library of username.
func (s *Service) Books(ctx context.Context, username string) ([]store.Book, error) {
	identity, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	books, err := s.store.LibraryBooks(ctx, identity.ID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to fetch library", err)
	}
	if books == nil {
		books = []store.Book{}
	}
	return books, nil
}

// UpdateIdentity applies the fields whose change flag is set. With no flag
// set it returns NoChangesDetected without writing.
func (s *Service) UpdateIdentity(ctx context.Context, current *store.Identity, update Update) (*UpdateResponse, error) {
	var (
		changes store.IdentityChanges
		summary []string
	)
	if update.UsernameChanged && update.Username != nil {
		changes.Username = update.Username
		summary = append(summary, fmt.Sprintf("username changed from %s to %s", current.Username, *update.Username))
	}
	if update.EmailChanged && update.Email != nil {
		changes.Email = update.Email
		summary = append(summary, fmt.Sprintf("email changed from %s to %s", current.Email, *update.Email))
	}
	if update.PasswordChanged && update.PasswordDigest != "" {
		digest := update.PasswordDigest
		changes.PasswordDigest = &digest
		summary = append(summary, "password updated")
	}
	if changes.Empty() {
		return nil, apperror.NewNoChangesError()
	}

	updated, err := s.store.UpdateIdentity(ctx, current.ID, changes)
	if err != nil {
		return nil, auth.TranslateStoreError(err, "failed to update user")
	}
	return &UpdateResponse{User: toProfile(updated), Changes: summary}, nil
}

// Delete removes the identity and its library associations.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteIdentity(ctx, id); err != nil {
		return auth.TranslateStoreError(err, "failed to delete user")
	}
	return nil
}

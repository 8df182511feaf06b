// Package store is the persistence boundary of the service. Handlers and
// pipeline steps receive a Store at construction; nothing reaches for a
// global database handle.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// UniqueViolationError reports a write that collided with a unique column.
type UniqueViolationError struct {
	Field string // "username" or "email"
	Err   error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Field)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// Identity is a registered user. PasswordDigest never leaves the service.
type Identity struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordDigest string    `db:"password_digest"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// IdentityChanges lists the columns an update writes. Nil fields are left alone.
type IdentityChanges struct {
	Username       *string
	Email          *string
	PasswordDigest *string
}

// Empty reports whether no column would be written.
func (c IdentityChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.PasswordDigest == nil
}

// Book is a catalog entry.
type Book struct {
	ID     int64  `db:"id" json:"id"`
	Title  string `db:"title" json:"title"`
	Author string `db:"author" json:"author"`
	Genre  string `db:"genre" json:"genre"`
}

// Store is the persistence contract used by the HTTP layer.
type Store interface {
	CreateIdentity(ctx context.Context, identity *Identity) (*Identity, error)
	FindIdentityByID(ctx context.Context, id int64) (*Identity, error)
	FindIdentityByUsername(ctx context.Context, username string) (*Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	// ListIdentities returns identities ordered by id, optionally restricted
	// to usernames starting with prefix.
	ListIdentities(ctx context.Context, prefix string) ([]Identity, error)
	UpdateIdentity(ctx context.Context, id int64, changes IdentityChanges) (*Identity, error)
	DeleteIdentity(ctx context.Context, id int64) error

	ListBooks(ctx context.Context) ([]Book, error)
	FindBookByTitle(ctx context.Context, title string) (*Book, error)
	// AddToLibrary is idempotent.
	AddToLibrary(ctx context.Context, identityID, bookID int64) error
	// RemoveFromLibrary returns ErrNotFound when the association is absent.
	RemoveFromLibrary(ctx context.Context, identityID, bookID int64) error
	LibraryBooks(ctx context.Context, identityID int64) ([]Book, error)

	Ping(ctx context.Context) error
}

// DefaultCatalog seeds the in-memory store. The Postgres schema seeds the
// same titles in its migrations.
var DefaultCatalog = []Book{
	{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance"},
	{Title: "The Hobbit", Author: "J. R. R. Tolkien", Genre: "Fantasy"},
	{Title: "Beloved", Author: "Toni Morrison", Genre: "Literary Fiction"},
	{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery"},
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

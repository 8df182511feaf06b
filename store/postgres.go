package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	identityColumns = `id, username, email, password_digest, created_at, updated_at`
)

// PostgresStore implements Store on PostgreSQL through sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// translate maps driver errors onto the store's error vocabulary.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			switch {
			case strings.Contains(pgErr.ConstraintName, "username"):
				return &UniqueViolationError{Field: "username", Err: err}
			case strings.Contains(pgErr.ConstraintName, "email"):
				return &UniqueViolationError{Field: "email", Err: err}
			}
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (s *PostgresStore) CreateIdentity(ctx context.Context, identity *Identity) (*Identity, error) {
	query := `INSERT INTO users (username, email, password_digest)
	          VALUES ($1, $2, $3)
	          RETURNING ` + identityColumns

	var created Identity
	err := s.db.GetContext(ctx, &created, query, identity.Username, identity.Email, identity.PasswordDigest)
	if err != nil {
		return nil, translate(err)
	}
	return &created, nil
}

func (s *PostgresStore) findIdentity(ctx context.Context, where string, arg any) (*Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM users WHERE ` + where + ` = $1`

	var identity Identity
	if err := s.db.GetContext(ctx, &identity, query, arg); err != nil {
		return nil, translate(err)
	}
	return &identity, nil
}

func (s *PostgresStore) FindIdentityByID(ctx context.Context, id int64) (*Identity, error) {
	return s.findIdentity(ctx, "id", id)
}

func (s *PostgresStore) FindIdentityByUsername(ctx context.Context, username string) (*Identity, error) {
	return s.findIdentity(ctx, "username", username)
}

func (s *PostgresStore) FindIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	return s.findIdentity(ctx, "email", email)
}

// likePrefix escapes LIKE metacharacters so prefix matches literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

func (s *PostgresStore) ListIdentities(ctx context.Context, prefix string) ([]Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM users WHERE username LIKE $1 ORDER BY id`

	identities := []Identity{}
	if err := s.db.SelectContext(ctx, &identities, query, likePrefix(prefix)); err != nil {
		return nil, translate(err)
	}
	return identities, nil
}

func (s *PostgresStore) UpdateIdentity(ctx context.Context, id int64, changes IdentityChanges) (*Identity, error) {
	if changes.Empty() {
		return s.FindIdentityByID(ctx, id)
	}

	var setClauses []string
	var args []any
	argID := 1

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, *value)
		argID++
	}
	add("username", changes.Username)
	add("email", changes.Email)
	add("password_digest", changes.PasswordDigest)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, identityColumns)

	var updated Identity
	if err := s.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

// execAffecting runs a statement and maps zero affected rows to ErrNotFound.
func (s *PostgresStore) execAffecting(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteIdentity(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) ListBooks(ctx context.Context) ([]Book, error) {
	books := []Book{}
	if err := s.db.SelectContext(ctx, &books, `SELECT id, title, author, genre FROM books ORDER BY id`); err != nil {
		return nil, translate(err)
	}
	return books, nil
}

func (s *PostgresStore) FindBookByTitle(ctx context.Context, title string) (*Book, error) {
	var book Book
	err := s.db.GetContext(ctx, &book, `SELECT id, title, author, genre FROM books WHERE title = $1`, title)
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (s *PostgresStore) AddToLibrary(ctx context.Context, identityID, bookID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_books (user_id, book_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		identityID, bookID)
	return translate(err)
}

func (s *PostgresStore) RemoveFromLibrary(ctx context.Context, identityID, bookID int64) error {
	return s.execAffecting(ctx, `DELETE FROM user_books WHERE user_id = $1 AND book_id = $2`, identityID, bookID)
}

func (s *PostgresStore) LibraryBooks(ctx context.Context, identityID int64) ([]Book, error) {
	query := `SELECT b.id, b.title, b.author, b.genre
	          FROM books b
	          JOIN user_books ub ON ub.book_id = b.id
	          WHERE ub.user_id = $1
	          ORDER BY b.id`

	books := []Book{}
	if err := s.db.SelectContext(ctx, &books, query, identityID); err != nil {
		return nil, translate(err)
	}
	return books, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps everything in process memory. It enforces the same
// uniqueness rules as the Postgres schema and is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	identities map[int64]Identity
	books      []Book
	libraries  map[int64]map[int64]struct{}
	now        func() time.Time
}

// NewMemoryStore returns an empty store whose catalog holds books.
func NewMemoryStore(books ...Book) *MemoryStore {
	s := &MemoryStore{
		identities: make(map[int64]Identity),
		libraries:  make(map[int64]map[int64]struct{}),
		now:        time.Now,
	}
	for i, b := range books {
		b.ID = int64(i + 1)
		s.books = append(s.books, b)
	}
	return s
}

// conflictLocked reports which unique column value is already taken by an
// identity other than selfID.
func (s *MemoryStore) conflictLocked(selfID int64, username, email *string) *UniqueViolationError {
	for id, existing := range s.identities {
		if id == selfID {
			continue
		}
		if username != nil && existing.Username == *username {
			return &UniqueViolationError{Field: "username"}
		}
		if email != nil && existing.Email == *email {
			return &UniqueViolationError{Field: "email"}
		}
	}
	return nil
}

func (s *MemoryStore) CreateIdentity(ctx context.Context, identity *Identity) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conflictLocked(0, &identity.Username, &identity.Email); err != nil {
		return nil, err
	}

	s.nextID++
	created := *identity
	created.ID = s.nextID
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.identities[created.ID] = created

	out := created
	return &out, nil
}

func (s *MemoryStore) FindIdentityByID(ctx context.Context, id int64) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &identity, nil
}

func (s *MemoryStore) findLocked(match func(Identity) bool) (*Identity, error) {
	for _, identity := range s.identities {
		if match(identity) {
			out := identity
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindIdentityByUsername(ctx context.Context, username string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(func(i Identity) bool { return i.Username == username })
}

func (s *MemoryStore) FindIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(func(i Identity) bool { return i.Email == email })
}

func (s *MemoryStore) ListIdentities(ctx context.Context, prefix string) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		if strings.HasPrefix(identity.Username, prefix) {
			out = append(out, identity)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateIdentity(ctx context.Context, id int64, changes IdentityChanges) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.conflictLocked(id, changes.Username, changes.Email); err != nil {
		return nil, err
	}

	if changes.Username != nil {
		identity.Username = *changes.Username
	}
	if changes.Email != nil {
		identity.Email = *changes.Email
	}
	if changes.PasswordDigest != nil {
		identity.PasswordDigest = *changes.PasswordDigest
	}
	identity.UpdatedAt = s.now()
	s.identities[id] = identity

	return &identity, nil
}

func (s *MemoryStore) DeleteIdentity(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[id]; !ok {
		return ErrNotFound
	}
	delete(s.identities, id)
	delete(s.libraries, id)
	return nil
}

func (s *MemoryStore) ListBooks(ctx context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

func (s *MemoryStore) FindBookByTitle(ctx context.Context, title string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if b.Title == title {
			out := b
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) bookExistsLocked(bookID int64) bool {
	for _, b := range s.books {
		if b.ID == bookID {
			return true
		}
	}
	return false
}

func (s *MemoryStore) AddToLibrary(ctx context.Context, identityID, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[identityID]; !ok || !s.bookExistsLocked(bookID) {
		return ErrNotFound
	}
	lib, ok := s.libraries[identityID]
	if !ok {
		lib = make(map[int64]struct{})
		s.libraries[identityID] = lib
	}
	lib[bookID] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveFromLibrary(ctx context.Context, identityID, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib := s.libraries[identityID]
	if _, ok := lib[bookID]; !ok {
		return ErrNotFound
	}
	delete(lib, bookID)
	return nil
}

func (s *MemoryStore) LibraryBooks(ctx context.Context, identityID int64) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lib := s.libraries[identityID]
	out := make([]Book, 0, len(lib))
	for _, b := range s.books {
		if _, ok := lib[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/observability"
)

// HashingError reports a bcrypt failure: input it refuses to hash, or a
// stored digest it cannot parse.
type HashingError struct {
	Op  string // "hash" or "compare"
	Err error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("%s password: %v", e.Op, e.Err)
}

func (e *HashingError) Unwrap() error {
	return e.Err
}

// Hasher hashes and compares passwords with bcrypt at a fixed cost.
// Both operations block the calling goroutine for the duration of the work.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher for the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, apperror.NewConfigError(
			fmt.Sprintf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost), nil)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	defer observe("hash", time.Now())

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", &HashingError{Op: "hash", Err: err}
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches digest. A mismatch is not an
// error; a malformed digest is.
func (h *Hasher) Compare(plaintext, digest string) (bool, error) {
	defer observe("compare", time.Now())

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &HashingError{Op: "compare", Err: err}
	}
}

func observe(op string, start time.Time) {
	observability.HashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/bookshelf-go/apperror"
)

// Claims is the payload of a session token.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// InvalidTokenError is returned by Verify for any token it will not accept.
type InvalidTokenError struct {
	Reason string
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid token: %s: %v", e.Reason, e.Err)
	}
	return "invalid token: " + e.Reason
}

func (e *InvalidTokenError) Unwrap() error {
	return e.Err
}

// TokenIssuer signs and verifies HS256 session tokens with the server secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. A ttl of zero issues tokens without
// iat or exp, so the same id always yields the same token.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, apperror.NewConfigError("JWT secret is empty", nil)
	}
	if ttl < 0 {
		return nil, apperror.NewConfigError("token duration must not be negative", nil)
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token carrying the identity id.
func (t *TokenIssuer) Issue(id int64) (string, error) {
	claims := Claims{UserID: id}
	if t.ttl > 0 {
		now := t.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// It never consults the store; resolving the id is the caller's job.
func (t *TokenIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, &InvalidTokenError{Reason: "token is missing"}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, &InvalidTokenError{Reason: "token has expired", Err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, &InvalidTokenError{Reason: "signature mismatch", Err: err}
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, &InvalidTokenError{Reason: "token is malformed", Err: err}
		default:
			return nil, &InvalidTokenError{Reason: "token could not be verified", Err: err}
		}
	}
	if !parsed.Valid {
		return nil, &InvalidTokenError{Reason: "token could not be verified"}
	}
	if claims.UserID <= 0 {
		return nil, &InvalidTokenError{Reason: "id claim is missing"}
	}
	return claims, nil
}

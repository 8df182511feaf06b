package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/store"
)

// bearerToken extracts the token from an "Authorization: Bearer {token}" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperror.NewAuthError("Authorization header is missing", nil)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.NewAuthError("Authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}

// VerifyToken resolves the bearer token to an identity and stores it in
// rc.User. On routes with a {username} parameter the identity must be that
// user. The token is verified before the store is read.
func (s *Service) VerifyToken() pipeline.Step {
	return pipeline.Step{
		Name: "verify_token",
		Run: func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
			raw, err := bearerToken(rc.Request.Header.Get("Authorization"))
			if err != nil {
				return pipeline.Fail(err)
			}

			claims, err := s.tokens.Verify(raw)
			if err != nil {
				return pipeline.Fail(apperror.NewAuthError("Invalid token", err))
			}

			identity, err := s.store.FindIdentityByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return pipeline.Fail(apperror.NewAuthError("Unauthorized", err))
				}
				return pipeline.Fail(apperror.NewDatabaseError("failed to resolve token identity", err))
			}

			if username := rc.Param("username"); username != "" && username != identity.Username {
				return pipeline.Fail(apperror.NewAuthError(
					"Username in the request parameters doesn't match the username associated with the token", nil))
			}

			rc.User = identity
			return pipeline.Continue()
		},
	}
}

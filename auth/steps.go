package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/store"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateUsername checks that the submitted username is 3 to 20 characters.
// An absent username is rejected only when required.
func ValidateUsername(required bool) pipeline.Step {
	return pipeline.Step{
		Name: "validate_username",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if rc.Body.Username == nil {
				return requiredField("username", required)
			}
			username := strings.TrimSpace(*rc.Body.Username)
			if err := validate.Var(username, "min=3,max=20"); err != nil {
				return pipeline.Fail(apperror.NewValidationError("username must be between 3 and 20 characters", err))
			}
			rc.Body.Username = &username
			return pipeline.Continue()
		},
	}
}

// ValidateEmail checks email syntax and normalizes the address to lower case.
func ValidateEmail(required bool) pipeline.Step {
	return pipeline.Step{
		Name: "validate_email",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if rc.Body.Email == nil {
				return requiredField("email", required)
			}
			email := strings.ToLower(strings.TrimSpace(*rc.Body.Email))
			if err := validate.Var(email, "required,email"); err != nil {
				return pipeline.Fail(apperror.NewValidationError("email must be a valid email address", err))
			}
			rc.Body.Email = &email
			return pipeline.Continue()
		},
	}
}

// ValidatePassword checks that the password is at least 8 characters and no
// longer than bcrypt accepts.
func ValidatePassword(required bool) pipeline.Step {
	return pipeline.Step{
		Name: "validate_password",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if rc.Body.Password == nil {
				return requiredField("password", required)
			}
			password := *rc.Body.Password
			if err := validate.Var(password, "min=8"); err != nil {
				return pipeline.Fail(apperror.NewValidationError("password must be at least 8 characters", err))
			}
			if len(password) > maxPasswordBytes {
				return pipeline.Fail(apperror.NewValidationError(
					fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes), nil))
			}
			return pipeline.Continue()
		},
	}
}

func requiredField(field string, required bool) pipeline.Result {
	if required {
		return pipeline.Fail(apperror.NewValidationError(field+" is required", nil))
	}
	return pipeline.Continue()
}

// UsernameChanged reports whether a username was submitted and differs from current.
func UsernameChanged(submitted *string, current string) bool {
	return submitted != nil && *submitted != current
}

// EmailChanged reports whether an email was submitted and differs from current.
func EmailChanged(submitted *string, current string) bool {
	return submitted != nil && *submitted != current
}

// Comparer matches a plaintext password against a stored digest.
type Comparer interface {
	Compare(plaintext, digest string) (bool, error)
}

// PasswordChanged reports whether a password was submitted and does not
// match digest.
func PasswordChanged(c Comparer, submitted *string, digest string) (bool, error) {
	if submitted == nil {
		return false, nil
	}
	matched, err := c.Compare(*submitted, digest)
	if err != nil {
		return false, err
	}
	return !matched, nil
}

func requireUser(rc *pipeline.Context, step string) error {
	if rc.User == nil {
		return apperror.NewInternalError("internal server error",
			fmt.Errorf("%s ran before the identity was resolved", step))
	}
	return nil
}

// DetectUsernameChange sets rc.UsernameChanged.
func DetectUsernameChange() pipeline.Step {
	return pipeline.Step{
		Name: "detect_username_change",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if err := requireUser(rc, "detect_username_change"); err != nil {
				return pipeline.Fail(err)
			}
			rc.UsernameChanged = UsernameChanged(rc.Body.Username, rc.User.Username)
			return pipeline.Continue()
		},
	}
}

// DetectEmailChange sets rc.EmailChanged.
func DetectEmailChange() pipeline.Step {
	return pipeline.Step{
		Name: "detect_email_change",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if err := requireUser(rc, "detect_email_change"); err != nil {
				return pipeline.Fail(err)
			}
			rc.EmailChanged = EmailChanged(rc.Body.Email, rc.User.Email)
			return pipeline.Continue()
		},
	}
}

// DetectPasswordChange sets rc.PasswordChanged by comparing the submitted
// password against the stored digest.
func (s *Service) DetectPasswordChange() pipeline.Step {
	return pipeline.Step{
		Name: "detect_password_change",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if err := requireUser(rc, "detect_password_change"); err != nil {
				return pipeline.Fail(err)
			}
			changed, err := PasswordChanged(s.hasher, rc.Body.Password, rc.User.PasswordDigest)
			if err != nil {
				return pipeline.Fail(apperror.NewInternalError("failed to compare password", err))
			}
			rc.PasswordChanged = changed
			return pipeline.Continue()
		},
	}
}

// HashPassword hashes the submitted password into rc.PasswordDigest. With
// onlyIfChanged set it does nothing unless rc.PasswordChanged is true.
func (s *Service) HashPassword(onlyIfChanged bool) pipeline.Step {
	return pipeline.Step{
		Name: "hash_password",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if onlyIfChanged && !rc.PasswordChanged {
				return pipeline.Continue()
			}
			if rc.Body.Password == nil {
				return pipeline.Fail(apperror.NewValidationError("password is required", nil))
			}
			digest, err := s.hasher.Hash(*rc.Body.Password)
			if err != nil {
				return pipeline.Fail(apperror.NewInternalError("failed to hash password", err))
			}
			rc.PasswordDigest = digest
			return pipeline.Continue()
		},
	}
}

// LoadIdentityByEmail looks up the identity for the submitted email.
func (s *Service) LoadIdentityByEmail() pipeline.Step {
	return pipeline.Step{
		Name: "load_identity_by_email",
		Run: func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
			if rc.Body.Email == nil {
				return pipeline.Fail(apperror.NewValidationError("email is required", nil))
			}
			identity, err := s.store.FindIdentityByEmail(ctx, *rc.Body.Email)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return pipeline.Fail(apperror.NewNotFoundError("User not found", err))
				}
				return pipeline.Fail(apperror.NewDatabaseError("failed to look up user", err))
			}
			rc.User = identity
			return pipeline.Continue()
		},
	}
}

// ComparePassword checks the submitted password against rc.User. A mismatch
// fails with an error of mismatchType.
func (s *Service) ComparePassword(mismatchType apperror.ErrorType) pipeline.Step {
	return pipeline.Step{
		Name: "compare_password",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if err := requireUser(rc, "compare_password"); err != nil {
				return pipeline.Fail(err)
			}
			if rc.Body.Password == nil {
				return pipeline.Fail(apperror.NewValidationError("password is required", nil))
			}
			matched, err := s.hasher.Compare(*rc.Body.Password, rc.User.PasswordDigest)
			if err != nil {
				return pipeline.Fail(apperror.NewInternalError("failed to compare password", err))
			}
			if !matched {
				return pipeline.Fail(apperror.NewAppError(mismatchType, "Password is incorrect", nil))
			}
			return pipeline.Continue()
		},
	}
}

// IssueToken signs a session token for rc.User into rc.Token.
func (s *Service) IssueToken() pipeline.Step {
	return pipeline.Step{
		Name: "issue_token",
		Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
			if err := requireUser(rc, "issue_token"); err != nil {
				return pipeline.Fail(err)
			}
			token, err := s.tokens.Issue(rc.User.ID)
			if err != nil {
				return pipeline.Fail(apperror.NewInternalError("failed to issue token", err))
			}
			rc.Token = token
			return pipeline.Continue()
		},
	}
}

package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/pipeline"
)

// Handlers builds the signup, login and session-restore pipelines.
type Handlers struct {
	service *Service
	exec    *pipeline.Executor
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, exec *pipeline.Executor) *Handlers {
	return &Handlers{service: service, exec: exec}
}

// RegisterRoutes mounts the authentication routes on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Method(http.MethodPost, "/signup", h.Signup())
	r.Method(http.MethodPost, "/login", h.Login())
	r.Method(http.MethodGet, "/login/verify", h.Verify())
}

// Signup godoc
// @Summary Create an account
// @Description Registers a new user and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.SignupRequest true "New account"
// @Success 201 {object} auth.TokenResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid input, or username/email already taken"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /signup [post]
func (h *Handlers) Signup() http.Handler {
	return h.exec.Pipeline("signup", h.handleSignup,
		pipeline.DecodeBody,
		ValidateUsername(true),
		ValidateEmail(true),
		ValidatePassword(true),
		h.service.HashPassword(false),
	)
}

func (h *Handlers) handleSignup(ctx context.Context, rc *pipeline.Context) pipeline.Result {
	created, err := h.service.CreateIdentity(ctx, *rc.Body.Username, *rc.Body.Email, rc.PasswordDigest)
	if err != nil {
		return pipeline.Fail(err)
	}
	token, err := h.service.tokens.Issue(created.ID)
	if err != nil {
		return pipeline.Fail(apperror.NewInternalError("failed to issue token", err))
	}
	return pipeline.Halt(http.StatusCreated, TokenResponse{
		ID:       created.ID,
		Username: created.Username,
		Token:    token,
	})
}

// Login godoc
// @Summary Log in
// @Description Checks email and password and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.LoginRequest true "Credentials"
// @Success 201 {object} auth.TokenResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Password is incorrect"
// @Failure 404 {object} apperror.ErrorResponse "Unknown email"
// @Router /login [post]
func (h *Handlers) Login() http.Handler {
	return h.exec.Pipeline("login", handleLogin,
		pipeline.DecodeBody,
		ValidateEmail(true),
		h.service.LoadIdentityByEmail(),
		h.service.ComparePassword(apperror.AuthError),
		h.service.IssueToken(),
	)
}

func handleLogin(_ context.Context, rc *pipeline.Context) pipeline.Result {
	return pipeline.Halt(http.StatusCreated, TokenResponse{
		ID:       rc.User.ID,
		Username: rc.User.Username,
		Token:    rc.Token,
	})
}

// Verify godoc
// @Summary Restore a session
// @Description Resolves the bearer token to its user. No new token is issued.
// @Tags Auth
// @Produce json
// @Success 200 {object} auth.VerifyResponse
// @Failure 401 {object} apperror.ErrorResponse "Missing, malformed or invalid token"
// @Security BearerAuth
// @Router /login/verify [get]
func (h *Handlers) Verify() http.Handler {
	return h.exec.Pipeline("verify", handleVerify, h.service.VerifyToken())
}

func handleVerify(_ context.Context, rc *pipeline.Context) pipeline.Result {
	return pipeline.Halt(http.StatusOK, VerifyResponse{
		Message: "persistent login successful",
		User:    UserSummary{ID: rc.User.ID, Username: rc.User.Username},
	})
}

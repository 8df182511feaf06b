package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/pipeline"
)

// Handlers builds the /users pipelines.
type Handlers struct {
	service *Service
	auth    *auth.Service
	exec    *pipeline.Executor
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, authService *auth.Service, exec *pipeline.Executor) *Handlers {
	return &Handlers{service: service, auth: authService, exec: exec}
}

// RegisterRoutes mounts the /users routes on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Method(http.MethodGet, "/", h.List())
		r.Route("/{username}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", h.Get())
			r.Method(http.MethodGet, "/account", h.Account())
			r.Method(http.MethodGet, "/books", h.Books())
			r.Method(http.MethodPut, "/", h.Update())
			r.Method(http.MethodDelete, "/", h.Delete())
		})
	})
}

// List godoc
// @Summary List users
// @Description Lists users, optionally only those whose username starts with prefix.
// @Tags Users
// @Produce json
// @Param prefix query string false "Username prefix"
// @Success 200 {array} users.Profile
// @Failure 500 {object} apperror.ErrorResponse
// @Router /users [get]
func (h *Handlers) List() http.Handler {
	return h.exec.Pipeline("list_users", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		profiles, err := h.service.List(ctx, rc.Request.URL.Query().Get("prefix"))
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, profiles)
	})
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} users.Profile
// @Failure 404 {object} apperror.ErrorResponse
// @Router /users/{username} [get]
func (h *Handlers) Get() http.Handler {
	return h.exec.Pipeline("get_user", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		identity, err := h.service.Get(ctx, rc.Param("username"))
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, toProfile(identity))
	})
}

// Account godoc
// @Summary Get a user's account
// @Description Returns the profile with timestamps and library size.
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} users.AccountResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /users/{username}/account [get]
func (h *Handlers) Account() http.Handler {
	return h.exec.Pipeline("get_account", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		account, err := h.service.Account(ctx, rc.Param("username"))
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, account)
	})
}

// Books godoc
// @Summary Get a user's library
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} store.Book
// @Failure 404 {object} apperror.ErrorResponse
// @Router /users/{username}/books [get]
func (h *Handlers) Books() http.Handler {
	return h.exec.Pipeline("get_user_books", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		books, err := h.service.Books(ctx, rc.Param("username"))
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, books)
	})
}

// Update godoc
// @Summary Update a user
// @Description Changes any of username, email and password. The token must belong to the user in the path.
// @Tags Users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param body body users.UpdateRequest true "Fields to change"
// @Success 200 {object} users.UpdateResponse
// @Failure 400 {object} apperror.ErrorResponse "Invalid input, conflict, or NoChangesDetected"
// @Failure 401 {object} apperror.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [put]
func (h *Handlers) Update() http.Handler {
	return h.exec.Pipeline("update_user", h.handleUpdate,
		h.auth.VerifyToken(),
		pipeline.DecodeBody,
		auth.ValidateUsername(false),
		auth.ValidateEmail(false),
		auth.ValidatePassword(false),
		auth.DetectUsernameChange(),
		auth.DetectEmailChange(),
		h.auth.DetectPasswordChange(),
		h.auth.HashPassword(true),
	)
}

func (h *Handlers) handleUpdate(ctx context.Context, rc *pipeline.Context) pipeline.Result {
	resp, err := h.service.UpdateIdentity(ctx, rc.User, Update{
		Username:        rc.Body.Username,
		Email:           rc.Body.Email,
		PasswordDigest:  rc.PasswordDigest,
		UsernameChanged: rc.UsernameChanged,
		EmailChanged:    rc.EmailChanged,
		PasswordChanged: rc.PasswordChanged,
	})
	if err != nil {
		return pipeline.Fail(err)
	}
	return pipeline.Halt(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a user
// @Description Deletes the account after checking its password. The token must belong to the user in the path.
// @Tags Users
// @Accept json
// @Param username path string true "Username"
// @Param body body users.DeleteRequest true "Current password"
// @Success 204
// @Failure 400 {object} apperror.ErrorResponse "Password is incorrect"
// @Failure 401 {object} apperror.ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [delete]
func (h *Handlers) Delete() http.Handler {
	return h.exec.Pipeline("delete_user", h.handleDelete,
		h.auth.VerifyToken(),
		pipeline.DecodeBody,
		auth.ValidatePassword(true),
		h.auth.ComparePassword(apperror.ValidationError),
	)
}

func (h *Handlers) handleDelete(ctx context.Context, rc *pipeline.Context) pipeline.Result {
	if err := h.service.Delete(ctx, rc.User.ID); err != nil {
		return pipeline.Fail(err)
	}
	return pipeline.Halt(http.StatusNoContent, nil)
}

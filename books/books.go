// Package books serves the catalog and the authenticated library routes.
package books

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/store"
)

var validate = validator.New()

// TitleRequest is the body of the library routes.
type TitleRequest struct {
	Title string `json:"title" example:"Dune"`
}

// LibraryResponse confirms a library change.
type LibraryResponse struct {
	Message string     `json:"message" example:"Book added to user's library successfully."`
	Book    store.Book `json:"book"`
}

// Service looks up books and changes library membership.
type Service struct {
	store store.Store
}

// NewService creates a new Service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]store.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list books", err)
	}
	if books == nil {
		books = []store.Book{}
	}
	return books, nil
}

func (s *Service) find(ctx context.Context, title string) (*store.Book, error) {
	book, err := s.store.FindBookByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Book with title %s not found.", title), err)
		}
		return nil, apperror.NewDatabaseError("failed to fetch book", err)
	}
	return book, nil
}

// Add puts the titled book in the identity's library. Adding a book twice is
// not an error.
func (s *Service) Add(ctx context.Context, identityID int64, title string) (*store.Book, error) {
	book, err := s.find(ctx, title)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddToLibrary(ctx, identityID, book.ID); err != nil {
		return nil, apperror.NewDatabaseError("failed to add book to library", err)
	}
	return book, nil
}

// Remove takes the titled book out of the identity's library.
func (s *Service) Remove(ctx context.Context, identityID int64, title string) (*store.Book, error) {
	book, err := s.find(ctx, title)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveFromLibrary(ctx, identityID, book.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Book with title %s is not in the library.", title), err)
		}
		return nil, apperror.NewDatabaseError("failed to remove book from library", err)
	}
	return book, nil
}

// ValidateTitle requires a non-blank title of at most 255 characters.
var ValidateTitle = pipeline.Step{
	Name: "validate_title",
	Run: func(_ context.Context, rc *pipeline.Context) pipeline.Result {
		if rc.Body.Title == nil {
			return pipeline.Fail(apperror.NewValidationError("title is required", nil))
		}
		title := strings.TrimSpace(*rc.Body.Title)
		if err := validate.Var(title, "required,max=255"); err != nil {
			return pipeline.Fail(apperror.NewValidationError("title must be between 1 and 255 characters", err))
		}
		rc.Body.Title = &title
		return pipeline.Continue()
	},
}

// Handlers builds the /books pipelines.
type Handlers struct {
	service *Service
	auth    *auth.Service
	exec    *pipeline.Executor
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, authService *auth.Service, exec *pipeline.Executor) *Handlers {
	return &Handlers{service: service, auth: authService, exec: exec}
}

// RegisterRoutes mounts the /books routes on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Method(http.MethodGet, "/", h.List())
		r.Method(http.MethodPost, "/add", h.Add())
		r.Method(http.MethodDelete, "/remove", h.Remove())
	})
}

// List godoc
// @Summary List the catalog
// @Tags Books
// @Produce json
// @Success 200 {array} store.Book
// @Router /books [get]
func (h *Handlers) List() http.Handler {
	return h.exec.Pipeline("list_books", func(ctx context.Context, _ *pipeline.Context) pipeline.Result {
		books, err := h.service.List(ctx)
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, books)
	})
}

// Add godoc
// @Summary Add a book to your library
// @Tags Books
// @Accept json
// @Produce json
// @Param body body books.TitleRequest true "Book title"
// @Success 200 {object} books.LibraryResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Unknown title"
// @Security BearerAuth
// @Router /books/add [post]
func (h *Handlers) Add() http.Handler {
	return h.exec.Pipeline("add_book", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		book, err := h.service.Add(ctx, rc.User.ID, *rc.Body.Title)
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, LibraryResponse{
			Message: "Book added to user's library successfully.",
			Book:    *book,
		})
	}, h.auth.VerifyToken(), pipeline.DecodeBody, ValidateTitle)
}

// Remove godoc
// @Summary Remove a book from your library
// @Tags Books
// @Accept json
// @Produce json
// @Param body body books.TitleRequest true "Book title"
// @Success 200 {object} books.LibraryResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Unknown title, or not in the library"
// @Security BearerAuth
// @Router /books/remove [delete]
func (h *Handlers) Remove() http.Handler {
	return h.exec.Pipeline("remove_book", func(ctx context.Context, rc *pipeline.Context) pipeline.Result {
		book, err := h.service.Remove(ctx, rc.User.ID, *rc.Body.Title)
		if err != nil {
			return pipeline.Fail(err)
		}
		return pipeline.Halt(http.StatusOK, LibraryResponse{
			Message: "Book removed from user's library successfully.",
			Book:    *book,
		})
	}, h.auth.VerifyToken(), pipeline.DecodeBody, ValidateTitle)
}

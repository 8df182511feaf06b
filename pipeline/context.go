package pipeline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/bookshelf-go/store"
)

// Body holds the request fields steps may read. A nil field was not sent,
// which is different from a field sent empty.
type Body struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// Context is the state of one request as it moves through a pipeline.
// The executor creates it, steps fill it in, and it is dropped once the
// response is written. It is never shared between requests.
type Context struct {
	Request *http.Request
	Body    Body

	// User is the identity the request acts on: the token's identity on
	// authenticated routes, the looked-up identity on login.
	User *store.Identity

	UsernameChanged bool
	EmailChanged    bool
	PasswordChanged bool

	// PasswordDigest is set by the hashing step for the handler to persist.
	PasswordDigest string
	Token          string
}

// Param returns a route parameter, or "" when the route has none by that name.
func (c *Context) Param(name string) string {
	if c.Request == nil {
		return ""
	}
	return chi.URLParam(c.Request, name)
}

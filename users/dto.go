package users

import (
	"time"

	"github.com/user/bookshelf-go/store"
)

// Profile is the public projection of an identity. The digest is never part of it.
type Profile struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"ana"`
	Email    string `json:"email" example:"ana@x.com"`
}

// AccountResponse is the account view of an identity.
type AccountResponse struct {
	Profile
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LibrarySize int       `json:"library_size" example:"3"`
}

// UpdateRequest is the body of PUT /users/{username}. Every field is optional.
type UpdateRequest struct {
	Username string `json:"username,omitempty" example:"ana"`
	Email    string `json:"email,omitempty" example:"ana@y.com"`
	Password string `json:"password,omitempty" example:"newsecret123"`
}

// UpdateResponse reports the new profile and what changed.
type UpdateResponse struct {
	User    Profile  `json:"user"`
	Changes []string `json:"changes" example:"email changed from ana@x.com to ana@y.com"`
}

// DeleteRequest is the body of DELETE /users/{username}.
type DeleteRequest struct {
	Password string `json:"password" example:"secret123"`
}

// Update carries the proposed values and change flags for UpdateIdentity.
type Update struct {
	Username        *string
	Email           *string
	PasswordDigest  string
	UsernameChanged bool
	EmailChanged    bool
	PasswordChanged bool
}

func toProfile(identity *store.Identity) Profile {
	return Profile{ID: identity.ID, Username: identity.Username, Email: identity.Email}
}

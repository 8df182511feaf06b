package auth

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username" example:"ana"`
	Email    string `json:"email" example:"ana@x.com"`
	Password string `json:"password" example:"secret123"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" example:"ana@x.com"`
	Password string `json:"password" example:"secret123"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"ana"`
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UserSummary identifies a user without contact details.
type UserSummary struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"ana"`
}

// VerifyResponse is returned by GET /login/verify.
type VerifyResponse struct {
	Message string      `json:"message" example:"persistent login successful"`
	User    UserSummary `json:"user"`
}

package roadauth

import (
	"github.com/roadinfra/roadauth/session"
)

// User is the authenticated principal carried in the session.
type User = session.User

// Snapshot is an immutable copy of the session state.
type Snapshot = session.Snapshot

// LoginRequest is the credential pair for the login exchange.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest rotates the current user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// LoginResult is the token grant returned by login and refresh.
type LoginResult struct {
	AccessToken            string `json:"accessToken"`
	RefreshToken           string `json:"refreshToken"`
	TokenType              string `json:"tokenType"`
	ExpiresIn              int64  `json:"expiresIn"`
	User                   *User  `json:"user"`
	RequiresPasswordChange bool   `json:"requiresPasswordChange"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// apiEnvelope is the platform's uniform response wrapper. Payloads live
// under data; error responses carry the detail in message and errors.
type apiEnvelope[T any] struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
}

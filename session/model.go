package session

import (
	"github.com/roadinfra/roadauth/permission"
)

// User is the authenticated identity as returned by the backend. A user
// carries exactly one role; the optional Permissions list, when present,
// overrides the static role table entirely.
type User struct {
	ID          string                  `json:"id"`
	Username    string                  `json:"username"`
	Email       string                  `json:"email,omitempty"`
	FirstName   string                  `json:"firstName,omitempty"`
	LastName    string                  `json:"lastName,omitempty"`
	Role        permission.Role         `json:"role"`
	Persona     string                  `json:"persona,omitempty"`
	Department  string                  `json:"department,omitempty"`
	Permissions []permission.Permission `json:"permissions"`

	Enabled            bool   `json:"enabled,omitempty"`
	AccountLocked      bool   `json:"accountLocked,omitempty"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
	LastLoginAt        string `json:"lastLoginAt,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// EffectivePermissions returns the user's explicit permission list when the
// backend supplied one, otherwise the static table entry for the user's
// role. A present-but-empty list means "no permissions", not "use the
// table".
func (u *User) EffectivePermissions() []permission.Permission {
	if u == nil {
		return nil
	}
	if u.Permissions != nil {
		out := make([]permission.Permission, len(u.Permissions))
		copy(out, u.Permissions)
		return out
	}
	return permission.PermissionsForRole(u.Role)
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Permissions != nil {
		c.Permissions = make([]permission.Permission, len(u.Permissions))
		copy(c.Permissions, u.Permissions)
	}
	return &c
}

// Snapshot is a point-in-time copy of the session. The zero value is the
// signed-out state.
type Snapshot struct {
	User               *User
	AccessToken        string
	RefreshToken       string
	Authenticated      bool
	MustChangePassword bool
}

func (s Snapshot) clone() Snapshot {
	s.User = s.User.clone()
	return s
}

// document is the persisted form. Field names match the browser client's
// storage layout so the durable schema stays recognizable across the two
// frontends.
type document struct {
	User               *User  `json:"user"`
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	Authenticated      bool   `json:"isAuthenticated"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

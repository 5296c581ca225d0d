package permission

// Role is the coarse identity classification assigned by the backend.
// Every user carries exactly one role.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEngineer Role = "ENGINEER"
	RoleOperator Role = "OPERATOR"
	RoleViewer   Role = "VIEWER"
)

// Roles returns the closed role set in descending privilege breadth.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEngineer, RoleOperator, RoleViewer}
}

// IsValid reports whether r is a member of the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEngineer, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// String returns the wire name of the role.
func (r Role) String() string {
	return string(r)
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleEngineer:
		return "Engineer"
	case RoleOperator:
		return "Operator"
	case RoleViewer:
		return "Viewer"
	}
	return string(r)
}

// Describe returns the one-line role description shown on the admin screens.
func (r Role) Describe() string {
	switch r {
	case RoleAdmin:
		return "Full system access including user management"
	case RoleEngineer:
		return "Technical access for configuration and analysis"
	case RoleOperator:
		return "Operational access for monitoring and incident response"
	case RoleViewer:
		return "Read-only access to all resources"
	}
	return ""
}

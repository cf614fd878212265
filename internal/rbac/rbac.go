// Package rbac implements the fixed workspace role hierarchy.
package rbac

// Role is a workspace access level.
type Role string

// Roles, highest to lowest.
const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleDispatcher Role = "dispatcher"
	RoleTech       Role = "tech"
	RoleViewer     Role = "viewer"
)

// rank maps each role to its position in the total order. Higher outranks lower.
var rank = map[Role]int{
	RoleOwner:      5,
	RoleAdmin:      4,
	RoleDispatcher: 3,
	RoleTech:       2,
	RoleViewer:     1,
}

// HasPermission reports whether actual meets or exceeds required.
// Unknown roles rank below viewer and satisfy nothing.
func HasPermission(actual, required Role) bool {
	return rank[actual] >= rank[required] && rank[actual] > 0
}

// Normalize maps an arbitrary role string onto a known Role,
// defaulting to viewer.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleOwner, RoleAdmin, RoleDispatcher, RoleTech, RoleViewer:
		return Role(role)
	default:
		return RoleViewer
	}
}

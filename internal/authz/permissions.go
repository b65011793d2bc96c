// Package authz holds the static authorization policy: the role/permission
// table, the route guard and the render-time gate. The policy is enumerable
// in one place so a new permission is added exactly here and nowhere else.
package authz

// Role is the coarse-grained principal classification.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Permission names checked against a role's static allow-set.
const (
	PermAccessDashboard = "access_dashboard"
	PermViewContent     = "view_content"
	PermPurchaseContent = "purchase_content"
	PermViewProfile     = "view_profile"
	PermManageContent   = "manage_content"
	PermManageUsers     = "manage_users"
	PermViewAnalytics   = "view_analytics"
	PermSystemSettings  = "system_settings"
)

// rolePermissions is the complete authorization policy. Read-only after
// package init, safe for unsynchronized concurrent reads.
var rolePermissions = map[Role][]string{
	RoleUser: {
		PermAccessDashboard,
		PermViewContent,
		PermPurchaseContent,
		PermViewProfile,
	},
	RoleAdmin: {
		PermAccessDashboard,
		PermManageContent,
		PermManageUsers,
		PermViewAnalytics,
		PermSystemSettings,
	},
}

// HasPermission reports whether the role's allow-set contains the exact
// permission string. Unknown roles have no permissions (fail-closed); the
// function is total and never errors for any input.
func HasPermission(role Role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the role's allow-set, empty for unknown roles.
func Permissions(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// KnownRole reports whether the role is part of the enumerated set.
func KnownRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}

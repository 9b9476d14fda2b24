package admin

// Role represents admin role
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleOperator   Role = "operator"
	RoleSupport    Role = "support"
)

// Permission represents an admin permission
type Permission string

const (
	PermViewAnalytics Permission = "analytics.view"
	PermViewMembers   Permission = "members.view"
	PermReviewCheckin Permission = "checkin.review"
	PermManageOrders  Permission = "orders.manage"
	PermManageLevels  Permission = "levels.manage"
	PermManageAdmins  Permission = "admins.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermViewAnalytics, PermViewMembers, PermReviewCheckin,
		PermManageOrders, PermManageLevels, PermManageAdmins,
	},
	RoleAdmin: {
		PermViewAnalytics, PermViewMembers, PermReviewCheckin,
		PermManageOrders, PermManageLevels,
	},
	RoleOperator: {
		PermViewAnalytics, PermViewMembers, PermReviewCheckin,
	},
	RoleSupport: {
		PermViewMembers,
	},
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// HasPermission checks if role grants perm
func (r Role) HasPermission(perm Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}

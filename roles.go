package shop

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular storefront account (browse, review, order)
	RoleUser UserRole = "USER"
	// RoleAdmin manages the catalog (plus everything a USER can do)
	RoleAdmin UserRole = "ADMIN"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleIsAtLeast checks if a role meets the minimum required level
func RoleIsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleUser:  0,
		RoleAdmin: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// ParseRole safely parses a string into a UserRole, defaulting to USER
// when the input is empty.
func ParseRole(roleStr string) (UserRole, bool) {
	if roleStr == "" {
		return RoleUser, true
	}
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

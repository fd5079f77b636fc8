package enums

import "fmt"

// Permission describes the allowed values for the `permission` column in users.
type Permission string

const (
	PermissionAdmin     Permission = "Admin"
	PermissionDeveloper Permission = "Developer"
	PermissionUser      Permission = "User"
)

var validPermissions = []Permission{
	PermissionAdmin,
	PermissionDeveloper,
	PermissionUser,
}

// IsValid reports whether the value matches the canonical permission enum.
func (p Permission) IsValid() bool {
	for _, candidate := range validPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermission converts the raw string to Permission.
func ParsePermission(value string) (Permission, error) {
	for _, candidate := range validPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}

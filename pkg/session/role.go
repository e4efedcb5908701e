package session

// Role is the closed set of roles governing route-level authorization.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ParseRole maps a stored role string onto the closed enumeration. Anything
// outside the set parses as "no role", which denies every role-restricted
// resource.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleModerator, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

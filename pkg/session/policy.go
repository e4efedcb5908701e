package session

// Default redirect targets for denied access checks.
const (
	DefaultLoginPath = "/auth/login"
	DefaultHomePath  = "/"
)

// State is the read-only view of a session the policy evaluator needs.
// *Manager satisfies it.
type State interface {
	IsAuthenticated() bool
	UserRole() (Role, bool)
}

// GuardOptions configures an access check.
type GuardOptions struct {
	// RequireAuth gates the resource behind authentication. When false the
	// check always allows.
	RequireAuth bool
	// AllowedRoles, when non-empty, restricts the resource to sessions whose
	// role is a member of the set.
	AllowedRoles []Role
	// RedirectTo overrides the login redirect target for unauthenticated
	// denials. Defaults to DefaultLoginPath.
	RedirectTo string
}

// Decision is the three-way outcome of an access check.
type Decision struct {
	Allowed    bool
	Reason     string
	RedirectTo string
}

// Evaluate decides access for the given options against current session
// state. Unauthenticated denials redirect to the login path; authenticated
// but unauthorized denials redirect home instead, because sending an
// already-authenticated user to the login page would loop.
func Evaluate(opts GuardOptions, state State) Decision {
	if !opts.RequireAuth {
		return Decision{Allowed: true}
	}

	if !state.IsAuthenticated() {
		target := opts.RedirectTo
		if target == "" {
			target = DefaultLoginPath
		}
		return Decision{Allowed: false, Reason: "not authenticated", RedirectTo: target}
	}

	if len(opts.AllowedRoles) > 0 {
		role, ok := state.UserRole()
		if !ok || !roleAllowed(role, opts.AllowedRoles) {
			return Decision{Allowed: false, Reason: "insufficient permissions", RedirectTo: DefaultHomePath}
		}
	}

	return Decision{Allowed: true}
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// HasRole reports whether the session holds exactly the given role.
func HasRole(state State, role Role) bool {
	got, ok := state.UserRole()
	return ok && got == role
}

// HasAnyRole reports whether the session holds one of the given roles.
func HasAnyRole(state State, roles ...Role) bool {
	got, ok := state.UserRole()
	if !ok {
		return false
	}
	return roleAllowed(got, roles)
}

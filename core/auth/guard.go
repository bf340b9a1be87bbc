package auth

// Decision is the outcome of the route-level authorization predicate.
type Decision int

const (
	// Proceed lets the navigation through.
	Proceed Decision = iota
	// RedirectLogin sends an unauthenticated caller to the login view.
	RedirectLogin
	// RedirectDashboard sends an authenticated caller lacking the required
	// role back to the dashboard.
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect:login"
	case RedirectDashboard:
		return "redirect:dashboard"
	}
	return "unknown"
}

// Decide is the only access-control logic in the system: a pure function of
// (session state, required role). An invalid required role never proceeds.
func Decide(ident *Identity, required Role) Decision {
	if ident == nil {
		return RedirectLogin
	}
	switch required {
	case RoleAdmin, RoleStudent:
		if ident.Role == required {
			return Proceed
		}
		return RedirectDashboard
	default:
		return RedirectDashboard
	}
}

// Package guard decides whether a navigation may render. It is a pure
// function over (current user, required roles): callers re-evaluate it on
// every navigation, so a logout is picked up on the next route change
// without any polling.
package guard

import "complaint_portal/internal/model"

// Client-side route surface.
const (
	RouteLogin             = "/login"
	RouteRegister          = "/register"
	RouteUserDashboard     = "/user/dashboard"
	RouteSubmitComplaint   = "/submit-complaint"
	RouteOfficialDashboard = "/official/dashboard"
	RouteAdminDashboard    = "/admin/dashboard"
)

// Outcome of a route evaluation.
type Outcome int

const (
	Render Outcome = iota
	Redirect
)

// Decision is the result of evaluating a navigation: either render the
// requested view, or redirect to Target.
type Decision struct {
	Outcome Outcome
	Target  string
}

// HomeRoute maps a role to its dashboard, defaulting to the citizen
// dashboard for unknown roles.
func HomeRoute(role string) string {
	switch role {
	case model.RoleAdmin:
		return RouteAdminDashboard
	case model.RoleOfficial:
		return RouteOfficialDashboard
	default:
		return RouteUserDashboard
	}
}

// Evaluate decides a navigation. No user redirects to the login view; a
// user whose role is outside the allow-list is silently redirected to their
// own dashboard; otherwise the view renders. An empty allow-list only
// requires authentication.
func Evaluate(user *model.SessionUser, allowedRoles []string) Decision {
	if user == nil {
		return Decision{Outcome: Redirect, Target: RouteLogin}
	}

	if len(allowedRoles) > 0 {
		allowed := false
		for _, role := range allowedRoles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return Decision{Outcome: Redirect, Target: HomeRoute(user.Role)}
		}
	}

	return Decision{Outcome: Render}
}
